// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int64
	err      error
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	return m.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount.Load() != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount.Load())
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not block or fail on empty workers list
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")

	var stopped atomic.Bool
	blocking := WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return nil
	})

	ws := NewWorkers(blocking, &mockWorker{err: boom})
	ws.Add(blocking)

	err := ws.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !stopped.Load() {
		t.Error("blocking worker was not cancelled")
	}
}

func TestWorkers_Run_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	finished := 0
	w := WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		mu.Lock()
		finished++
		mu.Unlock()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- NewWorkers(w, w).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
	if finished != 2 {
		t.Errorf("expected 2 finished workers, got %d", finished)
	}
}

// spyJob records Start/Stop calls.
type spyJob struct {
	mu       sync.Mutex
	started  int
	stopped  int
	interval time.Duration
}

func (j *spyJob) Start(_ context.Context, interval time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started++
	j.interval = interval
}

func (j *spyJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped++
}

func TestScheduler_StartsAndStopsJob(t *testing.T) {
	job := &spyJob{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewScheduler(job, time.Minute, true, logger.Nop()).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.started != 1 || job.stopped != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", job.started, job.stopped)
	}
	if job.interval != time.Minute {
		t.Errorf("expected interval 1m, got %s", job.interval)
	}
}

func TestScheduler_Disabled(t *testing.T) {
	job := &spyJob{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewScheduler(job, time.Minute, false, logger.Nop()).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.started != 0 {
		t.Errorf("disabled scheduler started the job")
	}
}
