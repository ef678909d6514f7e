// Package handler assembles the transport handlers of the sync daemon.
package handler

import (
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/handler/http"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the local API handler. network may be nil when
// connectivity is probed.
func NewHandlers(services *service.Services, network http.ConnectivitySetter, cfg *config.ClientConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, network, cfg.Sync.HashKey, logger),
	}, nil
}
