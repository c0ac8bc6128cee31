package grpc_server

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server exposes grpc.health.v1.Health so orchestrators can check readiness.
type Server struct {
	App    *grpc.Server
	health *health.Server
	notify chan error

	address  string
	services []string
}

// New -.
func New(opts ...Option) *Server {
	s := &Server{
		notify:  make(chan error, 1),
		address: _defaultAddr,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.App = grpc.NewServer()
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.App, s.health)
	reflection.Register(s.App)

	s.SetServing(false)
	return s
}

// SetServing flips every reported service between SERVING and NOT_SERVING.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	for _, name := range s.services {
		s.health.SetServingStatus(name, status)
	}
}

// Start -.
func (s *Server) Start() {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		s.notify <- err
		close(s.notify)
		return
	}
	s.Serve(lis)
}

// Serve runs the server on lis in the background.
func (s *Server) Serve(lis net.Listener) {
	go func() {
		zap.L().Info("gRPC server listening", zap.String("address", lis.Addr().String()))
		if err := s.App.Serve(lis); err != nil {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown reports NOT_SERVING to watchers and drains open calls.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.App.GracefulStop()
}
