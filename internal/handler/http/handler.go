package http

import (
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/service"
)

// ConnectivitySetter receives the host platform connectivity signal.
// Satisfied by *network.ChannelSource.
type ConnectivitySetter interface {
	Set(online bool)
}

type Handler struct {
	services *service.Services

	// network is nil when connectivity is probed rather than pushed.
	network ConnectivitySetter
	hashKey string

	logger *logger.Logger
}

func NewHandler(services *service.Services, network ConnectivitySetter, hashKey string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		network:  network,
		hashKey:  hashKey,
		logger:   logger,
	}
}
