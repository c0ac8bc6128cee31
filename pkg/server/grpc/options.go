package grpc_server

import "net"

const _defaultAddr = ":9090"

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Service also reports health under name, in addition to the overall status.
func Service(name string) Option {
	return func(s *Server) {
		s.services = append(s.services, name)
	}
}
