package network

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

// Monitor turns connectivity transitions into coordinator calls. Going
// offline only suspends future cycles; a running cycle is left to finish or
// fail on its own.
type Monitor struct {
	source   ConnectivitySource
	trigger  SyncTrigger
	debounce time.Duration

	mu      sync.Mutex
	pending *time.Timer
	wg      sync.WaitGroup

	logger *logger.Logger
}

func NewMonitor(source ConnectivitySource, trigger SyncTrigger, debounce time.Duration, logger *logger.Logger) *Monitor {
	return &Monitor{
		source:   source,
		trigger:  trigger,
		debounce: debounce,
		logger:   logger,
	}
}

// Run consumes the source until ctx is done. It waits for a fired reconnect
// cycle before returning.
func (m *Monitor) Run(ctx context.Context) error {
	log := m.logger.With().Str("func", "Monitor.Run").Logger()

	online := false
	known := false

	for next := range m.source.Watch(ctx) {
		if known && next == online {
			continue
		}
		wasOnline := online
		online, known = next, true

		m.trigger.SetOnline(online)
		log.Info().Bool("online", online).Msg("connectivity transition")

		if online && !wasOnline {
			m.schedule(ctx)
		} else if !online {
			m.stop()
		}
	}

	m.stop()
	m.wg.Wait()
	return nil
}

// schedule fires one cycle after the debounce window. A newer reconnect
// replaces a cycle that has not fired yet.
func (m *Monitor) schedule(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil && m.pending.Stop() {
		m.wg.Done()
	}

	m.wg.Add(1)
	m.pending = time.AfterFunc(m.debounce, func() {
		defer m.wg.Done()
		if ctx.Err() != nil {
			return
		}

		_, err := m.trigger.Sync(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Warn().Err(err).Str("func", "Monitor.schedule").Msg("reconnect sync failed")
		}
	})
}

// stop cancels a cycle that has not fired yet.
func (m *Monitor) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil && m.pending.Stop() {
		m.wg.Done()
	}
	m.pending = nil
}
