// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network observes device connectivity and feeds it to the sync
// coordinator.
//
// A [ConnectivitySource] reports transitions: [ChannelSource] when the host
// platform pushes them, [ProbeSource] when the daemon polls a health URL
// itself. [Monitor] consumes a source, flips the coordinator online state and
// fires one debounced cycle when connectivity comes back.
package network

import (
	"context"

	"github.com/MKhiriev/go-event-sync/models"
)

// Connectivity modes accepted by NewSource.
const (
	ModeProbe  = "probe"
	ModeManual = "manual"
)

// ConnectivitySource reports connectivity. The first value is the current
// state; later values are transitions. The channel is closed when ctx is
// done.
type ConnectivitySource interface {
	Watch(ctx context.Context) <-chan bool
}

// SyncTrigger is the part of the coordinator the monitor drives.
type SyncTrigger interface {
	SetOnline(online bool)
	Sync(ctx context.Context) (models.SyncResult, error)
}
