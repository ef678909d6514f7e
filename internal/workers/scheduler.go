package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

// Job is a periodic background job, see service.SyncJob.
type Job interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}

type schedulerWorker struct {
	job      Job
	interval time.Duration
	enabled  bool

	logger *logger.Logger
}

// NewScheduler runs job every interval while the worker runs. A disabled
// scheduler only waits for shutdown, leaving cycles to manual and
// reconnect triggers.
func NewScheduler(job Job, interval time.Duration, enabled bool, logger *logger.Logger) Worker {
	return &schedulerWorker{job: job, interval: interval, enabled: enabled, logger: logger}
}

func (s *schedulerWorker) Run(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info().Str("func", "schedulerWorker.Run").Msg("background sync disabled")
		<-ctx.Done()
		return nil
	}

	s.logger.Info().Str("func", "schedulerWorker.Run").Dur("interval", s.interval).Msg("background sync started")
	s.job.Start(ctx, s.interval)
	<-ctx.Done()
	s.job.Stop()
	return nil
}
