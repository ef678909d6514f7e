package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type httpServer struct {
	server *http.Server

	mu   sync.Mutex
	addr string

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, address string, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		addr:   address,
		logger: logger,
	}
}

func (h *httpServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server listen on %s: %w", h.server.Addr, err)
	}

	h.mu.Lock()
	h.addr = listener.Addr().String()
	h.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		h.logger.Info().Str("address", h.Addr()).Msg("Launching HTTP server")
		serveErr <- h.server.Serve(listener)
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err = h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	<-serveErr

	h.logger.Info().Msg("HTTP server Shutdown gracefully")
	return nil
}

func (h *httpServer) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}
