// Package zeroconf advertises the monitoring daemon as an mDNS/DNS-SD
// service so dashboards can find it on the LAN without configuration.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
)

// Service manages mDNS service registration.
type Service struct {
	name    string // instance name, usually the hostname
	port    int
	version string
	server  *zeroconf.Server
}

// New creates a zeroconf Service that will advertise on the given port.
func New(name string, port int, version string) *Service {
	return &Service{
		name:    name,
		port:    port,
		version: version,
	}
}

// Start registers the mDNS service and blocks until ctx is cancelled,
// at which point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	txt := []string{
		"model=NCT7904D",
		"vendor=Nuvoton",
		"version=" + s.version,
	}

	server, err := zeroconf.Register(
		s.name,
		"_http._tcp",
		"local.",
		s.port,
		txt,
		nil, // all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	s.server = server
	slog.Info("zeroconf: registered mDNS service",
		"name", s.name,
		"port", s.port,
		"txt", txt,
	)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}
