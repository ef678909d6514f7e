package server

import "context"

// Server is the lifecycle contract of the local API. It satisfies
// workers.Worker.
type Server interface {
	// Run listens and serves until ctx is done, then shuts down. A clean
	// shutdown returns nil.
	Run(ctx context.Context) error

	// Addr reports the bound address once the listener is open.
	Addr() string
}
