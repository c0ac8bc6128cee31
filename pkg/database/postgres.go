package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/duccv/go-product-catalog/config"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresDB holds a write pool and a read pool. Without a dedicated replica
// both pools point at the primary.
type PostgresDB struct {
	config    *config.PostgresConfig
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
	logger    *zap.Logger
}

var _ Database = (*PostgresDB)(nil)

func NewPostgresDB(config *config.PostgresConfig) *PostgresDB {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 30
	}
	return &PostgresDB{
		config: config,
		logger: logger.WithComponent(zap.L(), "postgres"),
	}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	p.logger.Info("Starting PostgreSQL connection",
		zap.String("host", p.config.Host),
		zap.Int("port", p.config.Port),
		zap.String("database", p.config.Database),
		zap.String("username", p.config.Username))

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ConnectTimeout)*time.Second)
	defer cancel()

	writeHost, writePort := p.config.WriteHost, p.config.WritePort
	if writeHost == "" {
		writeHost, writePort = p.config.Host, p.config.Port
	}
	readHost, readPort := p.config.ReadHost, p.config.ReadPort
	if readHost == "" {
		readHost, readPort = writeHost, writePort
	}

	var err error
	p.writePool, err = p.newPool(ctx, writeHost, writePort)
	if err != nil {
		return fmt.Errorf("failed to create write pool: %w", err)
	}

	if readHost == writeHost && readPort == writePort {
		p.logger.Debug("Using write pool for reads")
		p.readPool = p.writePool
	} else {
		p.readPool, err = p.newPool(ctx, readHost, readPort)
		if err != nil {
			p.writePool.Close()
			return fmt.Errorf("failed to create read pool: %w", err)
		}
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return err
	}

	p.logger.Info("Successfully connected to PostgreSQL",
		zap.String("write_host", writeHost),
		zap.Int("write_port", writePort),
		zap.String("read_host", readHost),
		zap.Int("read_port", readPort))
	return nil
}

func (p *PostgresDB) newPool(ctx context.Context, host string, port int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(p.buildPgxDSN(host, port))
	if err != nil {
		p.logger.Error("Failed to parse pool config",
			zap.String("host", host),
			zap.Int("port", port),
			zap.Error(err))
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	p.configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		p.logger.Error("Failed to create pool",
			zap.String("host", host),
			zap.Int("port", port),
			zap.Error(err))
		return nil, err
	}
	return pool, nil
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.writePool == nil || p.readPool == nil {
		return fmt.Errorf("postgres pools not initialized")
	}
	if err := p.writePool.Ping(ctx); err != nil {
		p.logger.Error("Write pool ping failed", zap.Error(err))
		return fmt.Errorf("write pool ping failed: %w", err)
	}
	if p.readPool != p.writePool {
		if err := p.readPool.Ping(ctx); err != nil {
			p.logger.Error("Read pool ping failed", zap.Error(err))
			return fmt.Errorf("read pool ping failed: %w", err)
		}
	}
	return nil
}

// ReadPool serves queries that tolerate replica lag.
func (p *PostgresDB) ReadPool() *pgxpool.Pool {
	return p.readPool
}

// WritePool serves mutations and read-after-write queries.
func (p *PostgresDB) WritePool() *pgxpool.Pool {
	return p.writePool
}

func (p *PostgresDB) IsConnected() bool {
	return p.writePool != nil && p.readPool != nil
}

func (p *PostgresDB) HealthCheck(ctx context.Context) map[string]error {
	result := make(map[string]error)

	if p.writePool != nil {
		result["write_pool"] = p.writePool.Ping(ctx)
	} else {
		result["write_pool"] = fmt.Errorf("write pool not initialized")
	}

	if p.readPool != nil {
		result["read_pool"] = p.readPool.Ping(ctx)
	} else {
		result["read_pool"] = fmt.Errorf("read pool not initialized")
	}

	for pool, err := range result {
		if err != nil {
			p.logger.Warn("Postgres health check failed", zap.String("pool", pool), zap.Error(err))
		}
	}
	return result
}

func (p *PostgresDB) buildPgxDSN(host string, port int) string {
	sslMode := p.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.config.Username, p.config.Password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     p.config.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return dsn.String()
}

func (p *PostgresDB) GetType() DatabaseType {
	return PostgreSQL
}

func (p *PostgresDB) Close() error {
	p.logger.Info("Closing PostgreSQL connections")

	if p.readPool != nil && p.readPool != p.writePool {
		p.readPool.Close()
	}
	if p.writePool != nil {
		p.writePool.Close()
	}
	p.readPool, p.writePool = nil, nil
	return nil
}

func (p *PostgresDB) configurePool(config *pgxpool.Config) {
	if p.config.MaxConns != 0 {
		config.MaxConns = p.config.MaxConns
	}
	if p.config.MinConns != 0 {
		config.MinConns = p.config.MinConns
	}
	if p.config.ConnMaxIdleTime != 0 {
		config.MaxConnIdleTime = time.Duration(p.config.ConnMaxIdleTime) * time.Minute
	}
	if p.config.ConnMaxLifetime != 0 {
		config.MaxConnLifetime = time.Duration(p.config.ConnMaxLifetime) * time.Hour
	}
	if p.config.HealthCheckPeriod != 0 {
		config.HealthCheckPeriod = time.Duration(p.config.HealthCheckPeriod) * time.Minute
	}
}
