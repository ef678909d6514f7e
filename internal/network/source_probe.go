package network

import (
	"context"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
)

const defaultProbeInterval = 10 * time.Second

// ProbeSource polls a health URL. Any response below 500 counts as online;
// a network error or a 5xx counts as offline.
type ProbeSource struct {
	client   *utils.HTTPClient
	url      string
	interval time.Duration

	logger *logger.Logger
}

// NewProbeSource probes url every interval. Each probe is bounded by
// timeout.
func NewProbeSource(url string, interval, timeout time.Duration, logger *logger.Logger) *ProbeSource {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	return &ProbeSource{
		client:   utils.NewHTTPClient("", timeout),
		url:      url,
		interval: interval,
		logger:   logger,
	}
}

func (s *ProbeSource) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	go func() {
		defer close(ch)

		t := time.NewTicker(s.interval)
		defer t.Stop()

		last := s.probe(ctx)
		replaceLatest(ch, last)

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				online := s.probe(ctx)
				if online == last {
					continue
				}
				last = online
				replaceLatest(ch, online)
			}
		}
	}()

	return ch
}

// probe reports whether the health URL answered.
func (s *ProbeSource) probe(ctx context.Context) bool {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "ProbeSource.probe").Str("url", s.url).Msg("probe failed")
		return false
	}
	return resp.StatusCode() < 500
}
