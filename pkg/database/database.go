package database

import "context"

type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
)

// Database is the connection lifecycle shared by the storage backends.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	GetType() DatabaseType
	IsConnected() bool
	HealthCheck(ctx context.Context) map[string]error
}

// Healthy reports whether every entry of a HealthCheck result is nil.
func Healthy(result map[string]error) bool {
	for _, err := range result {
		if err != nil {
			return false
		}
	}
	return true
}
