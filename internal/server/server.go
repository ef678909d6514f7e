package server

import (
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/handler"
	"github.com/MKhiriev/go-event-sync/internal/logger"
)

// NewServer returns the local API server listening on cfg.HTTPAddress.
func NewServer(handlers *handler.Handlers, cfg config.ClientServer, logger *logger.Logger) (Server, error) {
	if cfg.HTTPAddress == "" {
		return nil, ErrNoListenAddress
	}
	if handlers == nil || handlers.HTTP == nil {
		return nil, ErrNoRouter
	}

	logger.Info().Str("address", cfg.HTTPAddress).Msg("creating local API server")
	return newHTTPServer(handlers.HTTP.Init(), cfg.HTTPAddress, logger), nil
}
