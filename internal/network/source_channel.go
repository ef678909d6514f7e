package network

import (
	"context"
	"sync"
)

// ChannelSource is fed by the host platform, for example through the local
// API. Repeated values are collapsed.
type ChannelSource struct {
	mu       sync.Mutex
	online   bool
	watchers map[chan bool]struct{}
}

func NewChannelSource(initial bool) *ChannelSource {
	return &ChannelSource{
		online:   initial,
		watchers: make(map[chan bool]struct{}),
	}
}

// Set records the platform connectivity signal.
func (s *ChannelSource) Set(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.online == online {
		return
	}
	s.online = online
	for ch := range s.watchers {
		replaceLatest(ch, online)
	}
}

func (s *ChannelSource) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *ChannelSource) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	s.mu.Lock()
	ch <- s.online
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// replaceLatest sends v, dropping an unread older value.
func replaceLatest(ch chan bool, v bool) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
