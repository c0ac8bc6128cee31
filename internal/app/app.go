// Package app assembles the stores, services and servers from configuration
// and runs them until the process is asked to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/duccv/go-product-catalog/config"
	"github.com/duccv/go-product-catalog/internal/handler"
	"github.com/duccv/go-product-catalog/internal/middleware"
	"github.com/duccv/go-product-catalog/internal/repository"
	"github.com/duccv/go-product-catalog/internal/repository/memory"
	"github.com/duccv/go-product-catalog/internal/repository/postgres"
	"github.com/duccv/go-product-catalog/internal/repository/redisledger"
	"github.com/duccv/go-product-catalog/internal/service"
	"github.com/duccv/go-product-catalog/pkg/cache"
	"github.com/duccv/go-product-catalog/pkg/database"
	grpc_server "github.com/duccv/go-product-catalog/pkg/server/grpc"
	http_server "github.com/duccv/go-product-catalog/pkg/server/http"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	env *config.Env

	Users    repository.UserRepository
	Products repository.ProductRepository
	Ledger   repository.RevocationLedger

	Auth    *service.AuthService
	Catalog *service.ProductService
	janitor *service.RevocationJanitor

	HTTP *http_server.Server
	GRPC *grpc_server.Server

	db      *database.PostgresDB
	closers []func()
}

// New connects the configured backends and builds the servers. Nothing
// listens until Run.
func New(ctx context.Context, env *config.Env) (*App, error) {
	a := &App{env: env}

	if err := a.initStorage(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.initLedger(ctx); err != nil {
		a.close()
		return nil, err
	}

	tokens := service.NewTokenService(
		[]byte(env.AuthConfig.JWTSecret),
		env.AuthConfig.AccessTokenTTL,
		env.AuthConfig.Issuer,
	)
	auth, err := service.NewAuthService(a.Users, a.Ledger, tokens, env.AuthConfig.BcryptCost)
	if err != nil {
		a.close()
		return nil, err
	}
	a.Auth = auth
	a.Catalog = service.NewProductService(a.Products)
	a.janitor = service.NewRevocationJanitor(a.Ledger, env.AuthConfig.RevocationPruneInterval)

	a.initServers()
	return a, nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.env.StorageConfig.Driver {
	case config.BackendMemory:
		users := memory.NewUserRepository()
		a.Users = users
		a.Products = memory.NewProductRepository(users)
		zap.L().Warn("Using in-memory storage, data is lost on restart")
		return nil

	case config.BackendPostgres:
		db := database.NewPostgresDB(&a.env.PostgresConfig)
		if err := db.Connect(ctx); err != nil {
			return err
		}
		a.db = db
		a.closers = append(a.closers, func() {
			if err := db.Close(); err != nil {
				zap.L().Warn("Failed to close postgres", zap.Error(err))
			}
		})

		if a.env.StorageConfig.AutoMigrate {
			if err := postgres.Migrate(ctx, db.WritePool()); err != nil {
				return err
			}
		}

		timeout := a.env.StorageConfig.QueryTimeout
		a.Users = postgres.NewUserRepository(db.ReadPool(), db.WritePool(), timeout)
		a.Products = postgres.NewProductRepository(db.ReadPool(), db.WritePool(), timeout)
		return nil

	default:
		return fmt.Errorf("unsupported storage driver %q", a.env.StorageConfig.Driver)
	}
}

func (a *App) initLedger(ctx context.Context) error {
	var ledger repository.RevocationLedger

	switch a.env.AuthConfig.RevocationBackend {
	case config.BackendMemory:
		ledger = memory.NewRevocationLedger()

	case config.BackendPostgres:
		if a.db == nil {
			return errors.New("postgres revocation ledger requires postgres storage")
		}
		ledger = postgres.NewRevocationLedger(a.db.ReadPool(), a.db.WritePool(), a.env.StorageConfig.QueryTimeout)

	case config.BackendRedis:
		client, err := cache.NewRedisClient(ctx, a.env.RedisConfig)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				zap.L().Warn("Failed to close redis", zap.Error(err))
			}
		})
		ledger = redisledger.NewRevocationLedger(client, a.env.RedisConfig.KeyPrefix)

	default:
		return fmt.Errorf("unsupported revocation backend %q", a.env.AuthConfig.RevocationBackend)
	}

	if a.env.AuthConfig.RevocationCache {
		c := cache.NewCache(a.env.CacheConfig)
		a.closers = append(a.closers, c.Stop)
		ledger = repository.NewCachedLedger(ledger, c)
	}
	a.Ledger = ledger
	return nil
}

func (a *App) initServers() {
	env := a.env
	logging := middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig())
	authMiddleware := middleware.NewJWTAuthMiddleware(a.Auth)
	authHandler := handler.NewAuthHandler(a.Auth)
	productHandler := handler.NewProductHandler(a.Catalog)

	a.HTTP = http_server.New(env,
		http_server.Port(strconv.Itoa(env.AppConfig.Port)),
		http_server.Timeout(env.AppConfig.RequestTimeout),
		http_server.HealthCheck(a.healthCheck),
		http_server.Middleware(
			middleware.CorrelationIDMiddleware(),
			logging.RequestIDMiddleware(),
			logging.RequestLogger(),
			logging.ErrorLogger(),
		),
		http_server.Routes(func(r gin.IRouter) {
			handler.RegisterRoutes(r, authHandler, productHandler,
				authMiddleware.Authenticate(), env.AuthConfig.ProductReadAccess)
		}),
	)

	if env.GRPCConfig.Enabled {
		a.GRPC = grpc_server.New(
			grpc_server.Port(strconv.Itoa(env.GRPCConfig.Port)),
			grpc_server.Service(env.AppConfig.Name),
		)
	}
}

func (a *App) healthCheck(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	for name, err := range a.db.HealthCheck(ctx) {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Run serves until ctx is cancelled or a server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.janitor.Run(janitorCtx)

	a.HTTP.Start()

	var grpcNotify <-chan error
	if a.GRPC != nil {
		a.GRPC.Start()
		a.GRPC.SetServing(true)
		grpcNotify = a.GRPC.Notify()
	}

	var runErr error
	select {
	case <-ctx.Done():
		zap.L().Info("Shutdown signal received")
	case err := <-a.HTTP.Notify():
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-grpcNotify:
		runErr = fmt.Errorf("grpc server: %w", err)
	}

	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	if a.GRPC != nil {
		a.GRPC.SetServing(false)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.HTTP.Shutdown(ctx); err != nil {
		zap.L().Error("HTTP shutdown failed", zap.Error(err))
	}
	if a.GRPC != nil {
		a.GRPC.Shutdown()
	}

	a.close()
	zap.L().Info("Server stopped")
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run builds the app from env and serves until SIGINT or SIGTERM.
func Run(env *config.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, env)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
