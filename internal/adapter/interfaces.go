// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstraction for talking to the
// remote sync endpoint.
//
// The primary abstraction is [RemoteAdapter], which decouples the sync
// coordinator from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteAdapter]) built on resty.
//
// Non-2xx answers and network failures are mapped by mapHTTPError onto the
// error taxonomy of internal/app: *app.TransportError for failures worth
// retrying (network, timeout, 408, 429, 5xx) and *app.ServerRejectionError
// for refusals. The sentinel values in errors.go stay reachable through
// [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-event-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_adapter_mock.go -package=mock

// RemoteAdapter defines transport-agnostic communication with the sync
// endpoint.
type RemoteAdapter interface {
	// Push sends one batch of local events. The response lists the accepted
	// ids and the per-event rejections; ids in neither list are treated as
	// not acknowledged.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// Pull fetches one page of server events after req.Cursor.
	Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error)
}
