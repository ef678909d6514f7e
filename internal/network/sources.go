package network

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
)

var ErrUnknownMode = errors.New("unknown network mode")

// NewSource builds the source selected by cfg.Mode. In manual mode the
// returned *ChannelSource starts offline until the host reports otherwise.
func NewSource(cfg config.ClientNetwork, timeout time.Duration, logger *logger.Logger) (ConnectivitySource, error) {
	switch cfg.Mode {
	case ModeProbe:
		return NewProbeSource(cfg.ProbeURL, cfg.ProbeInterval, timeout, logger), nil
	case ModeManual:
		return NewChannelSource(false), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}
