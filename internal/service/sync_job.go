package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

const defaultSyncInterval = 30 * time.Second

type syncJob struct {
	coordinator Coordinator

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a job that calls coordinator.Sync on a ticker. The job
// is idle until Start is called.
func NewSyncJob(coordinator Coordinator, logger *logger.Logger) SyncJob {
	return &syncJob{coordinator: coordinator, logger: logger}
}

// Start implements SyncJob. A non-positive interval defaults to 30 seconds.
// Ticks that find the device offline or a cycle already running are skipped.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_, err := j.coordinator.Sync(jobCtx)
				switch {
				case err == nil, errors.Is(err, ErrOffline), errors.Is(err, ErrSyncInProgress):
				default:
					j.logger.Warn().Err(err).Str("func", "syncJob.Start").Msg("scheduled sync failed")
				}
			}
		}
	}()
}

// Stop implements SyncJob. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
