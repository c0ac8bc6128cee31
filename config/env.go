package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Read access modes for GET /products/:id.
const (
	ProductReadPublic        = "public"
	ProductReadAuthenticated = "authenticated"
)

// Storage and revocation backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type (
	AppConfig struct {
		Name           string        `mapstructure:"name"`
		Version        string        `mapstructure:"version"`
		Port           int           `mapstructure:"port"`
		Environment    string        `mapstructure:"environment"`
		PathPrefix     string        `mapstructure:"path_prefix"` // Optional, mounts the API under a base path
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	PostgresConfig struct {
		Host              string `mapstructure:"host"`
		Port              int    `mapstructure:"port"`
		ReadHost          string `mapstructure:"read_host"`
		ReadPort          int    `mapstructure:"read_port"`
		WriteHost         string `mapstructure:"write_host"`
		WritePort         int    `mapstructure:"write_port"`
		Username          string `mapstructure:"username"`
		Password          string `mapstructure:"password"`
		Database          string `mapstructure:"database"`
		SSLMode           string `mapstructure:"sslmode"`
		ConnectTimeout    int    `mapstructure:"connect_timeout"`
		MaxConns          int32  `mapstructure:"max_conns"`
		MinConns          int32  `mapstructure:"min_conns"`
		ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"`
		ConnMaxIdleTime   int    `mapstructure:"conn_max_idle_time"`
		HealthCheckPeriod int    `mapstructure:"health_check_period"`
	}

	RedisConfig struct {
		Type       string `mapstructure:"type"` // NORMAL or SENTINEL
		Addrs      string `mapstructure:"addrs"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
		KeyPrefix  string `mapstructure:"key_prefix"`
	}

	CacheConfig struct {
		Type       string `mapstructure:"type"`
		Capacity   int    `mapstructure:"capacity"`
		DefaultTTL int    `mapstructure:"default_ttl"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}

	GRPCConfig struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	}

	AuthConfig struct {
		JWTSecret               string        `mapstructure:"jwt_secret"`
		Issuer                  string        `mapstructure:"issuer"`
		AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
		BcryptCost              int           `mapstructure:"bcrypt_cost"`
		ProductReadAccess       string        `mapstructure:"product_read_access"`
		RevocationBackend       string        `mapstructure:"revocation_backend"`
		RevocationPruneInterval time.Duration `mapstructure:"revocation_prune_interval"`
		RevocationCache         bool          `mapstructure:"revocation_cache"`
	}

	StorageConfig struct {
		Driver       string        `mapstructure:"driver"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
		AutoMigrate  bool          `mapstructure:"auto_migrate"`
	}
)

type Env struct {
	AppConfig      AppConfig      `mapstructure:"app"`
	LoggerConfig   LoggerConfig   `mapstructure:"logging"`
	PostgresConfig PostgresConfig `mapstructure:"postgres"`
	RedisConfig    RedisConfig    `mapstructure:"redis"`
	CacheConfig    CacheConfig    `mapstructure:"cache"`
	CORSConfig     CORSConfig     `mapstructure:"cors"`
	MetricsConfig  MetricsConfig  `mapstructure:"metrics"`
	GRPCConfig     GRPCConfig     `mapstructure:"grpc"`
	AuthConfig     AuthConfig     `mapstructure:"auth"`
	StorageConfig  StorageConfig  `mapstructure:"storage"`
}

var env *Env

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "product-catalog")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.path_prefix", "")
	v.SetDefault("app.request_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.filepath", "logs/app.log")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.localTime", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.username", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "simple_crud")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.connect_timeout", 30)

	v.SetDefault("redis.type", "NORMAL")
	v.SetDefault("redis.addrs", "localhost:6379")
	v.SetDefault("redis.key_prefix", "revoked:")

	v.SetDefault("cache.type", "LRU")
	v.SetDefault("cache.capacity", 10000)
	v.SetDefault("cache.default_ttl", 3600)

	v.SetDefault("cors.enabled", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 9090)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "product-catalog")
	v.SetDefault("auth.access_token_ttl", time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.product_read_access", ProductReadPublic)
	v.SetDefault("auth.revocation_backend", BackendPostgres)
	v.SetDefault("auth.revocation_prune_interval", 30*time.Minute)
	v.SetDefault("auth.revocation_cache", true)

	v.SetDefault("storage.driver", BackendPostgres)
	v.SetDefault("storage.query_timeout", 5*time.Second)
	v.SetDefault("storage.auto_migrate", true)
}

// Load reads the yaml config at path (when it exists) and overlays ENV_* environment variables.
func Load(path string) (*Env, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	/*
	   AutomaticEnv checks for an environment variable any time a key is read.
	   Keys are uppercased and prefixed, e.g. auth.jwt_secret -> ENV_AUTH_JWT_SECRET.
	*/
	v.AutomaticEnv()
	v.SetEnvPrefix("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("app.name", "APP_NAME")

	var out Env
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	out.LoggerConfig.Environment = out.AppConfig.Environment
	if out.AppConfig.Environment == "production" {
		out.LoggerConfig.Level = "info"
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate rejects configurations the server cannot start with.
func (e *Env) Validate() error {
	if e.AuthConfig.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if e.AuthConfig.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive")
	}

	switch e.AuthConfig.ProductReadAccess {
	case ProductReadPublic, ProductReadAuthenticated:
	default:
		return fmt.Errorf("unsupported auth.product_read_access: %q", e.AuthConfig.ProductReadAccess)
	}

	switch e.StorageConfig.Driver {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("unsupported storage.driver: %q", e.StorageConfig.Driver)
	}

	switch e.AuthConfig.RevocationBackend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unsupported auth.revocation_backend: %q", e.AuthConfig.RevocationBackend)
	}
	if e.AuthConfig.RevocationBackend == BackendPostgres && e.StorageConfig.Driver != BackendPostgres {
		return fmt.Errorf("auth.revocation_backend postgres requires storage.driver postgres")
	}
	return nil
}

func GetEnv() *Env {
	if env != nil {
		return env
	}
	loaded, err := Load("./config/config.yaml")
	if err != nil {
		log.Fatalf("Error loading config, %s", err)
	}
	env = loaded
	printStartupConfig(env)
	return env
}

func printStartupConfig(env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Println(line)
	fmt.Println("🚀 Application Configuration")
	fmt.Println(line)

	fmt.Printf("%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Printf("%-15s: %s\n", "Version", env.AppConfig.Version)
	fmt.Printf("%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Printf("%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Printf("%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Printf("%-15s: %s\n", "Storage", env.StorageConfig.Driver)
	fmt.Printf("%-15s: %s\n", "Revocation", env.AuthConfig.RevocationBackend)
	fmt.Printf("%-15s: %s\n", "Product Read", env.AuthConfig.ProductReadAccess)

	fmt.Println(line)
}
