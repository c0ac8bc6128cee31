package http_server

import (
	"context"
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	_defaultAddr    = ":80"
	_defaultTimeout = 5 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds every request; zero disables the timeout middleware.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// Middleware runs after the built-in middleware and before the routes.
func Middleware(handlers ...gin.HandlerFunc) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, handlers...)
	}
}

// Routes mounts the API under the configured path prefix.
func Routes(register func(r gin.IRouter)) Option {
	return func(s *Server) {
		s.routes = register
	}
}

// HealthCheck is consulted by GET /health.
func HealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}
