// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

// spyCoordinator counts Sync calls; the rest of the interface is inert.
type spyCoordinator struct {
	Coordinator
	calls atomic.Int64
	err   error
}

func (s *spyCoordinator) Sync(context.Context) (models.SyncResult, error) {
	s.calls.Add(1)
	return models.SyncResult{}, s.err
}

func TestNewSyncJob_ReturnsInterface(t *testing.T) {
	job := NewSyncJob(&spyCoordinator{}, logger.Nop())
	require.NotNil(t, job)
}

func TestSyncJob_Start_CallsSync(t *testing.T) {
	spy := &spyCoordinator{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "Sync should run several times, ran %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spyCoordinator{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load())
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(&spyCoordinator{}, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_ContextCancelStops(t *testing.T) {
	spy := &spyCoordinator{err: ErrOffline}
	job := NewSyncJob(spy, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	cancel()
	job.Stop()

	calls := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, spy.calls.Load())
}

func TestSyncJob_RestartReplacesPrevious(t *testing.T) {
	spy := &spyCoordinator{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(1))
}
