// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
)

func newTestHandler() *Handler {
	return &Handler{logger: logger.Nop()}
}

// makeRequest creates a request whose context carries a logger writing to buf.
func makeRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf).With().Timestamp().Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name           string
		requestTraceID string
		wantSame       bool
	}{
		{name: "trace ID from request header is reused", requestTraceID: "my-custom-trace-id", wantSame: true},
		{name: "UUID string as incoming trace ID", requestTraceID: "550e8400-e29b-41d4-a716-446655440000", wantSame: true},
		{name: "no trace ID in request - UUIDv7 generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxLogger *logger.Logger
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxLogger = logger.FromRequest(r)
				w.WriteHeader(http.StatusTeapot)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestTraceID != "" {
				req.Header.Set(traceIDHeader, tt.requestTraceID)
			}
			rr := httptest.NewRecorder()
			newTestHandler().withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			require.NotNil(t, ctxLogger)
			assert.Equal(t, http.StatusTeapot, rr.Code)

			if tt.wantSame {
				assert.Equal(t, tt.requestTraceID, got)
				return
			}
			id, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(7), id.Version())
		})
	}
}

func TestWithTraceID_UniqueIDs(t *testing.T) {
	h := newTestHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	seen := make(map[string]struct{})
	for range 100 {
		rr := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
		seen[rr.Header().Get(traceIDHeader)] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		path            string
		handlerStatus   int
		handlerResponse string
		wantLog         []string
	}{
		{
			name:            "GET 200",
			method:          http.MethodGet,
			path:            "/api/sync/status",
			handlerStatus:   http.StatusOK,
			handlerResponse: "OK",
			wantLog:         []string{`"level":"info"`, `"method":"GET"`, `"uri":"/api/sync/status"`, `"status":200`, `"size":2`, `"duration":`},
		},
		{
			name:          "POST 409 logged as warning",
			method:        http.MethodPost,
			path:          "/api/sync/retry",
			handlerStatus: http.StatusConflict,
			wantLog:       []string{`"level":"warn"`, `"status":409`, `"size":0`},
		},
		{
			name:            "500 logged as error",
			method:          http.MethodGet,
			path:            "/api/sync/status",
			handlerStatus:   http.StatusInternalServerError,
			handlerResponse: "boom",
			wantLog:         []string{`"level":"error"`, `"status":500`},
		},
		{
			name:          "query parameters preserved in uri",
			method:        http.MethodGet,
			path:          "/api/sync/state?verbose=1",
			handlerStatus: http.StatusOK,
			wantLog:       []string{`"uri":"/api/sync/state?verbose=1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.handlerResponse != "" {
					_, _ = w.Write([]byte(tt.handlerResponse))
				}
			})

			rr := httptest.NewRecorder()
			newTestHandler().withLogging(next).ServeHTTP(rr, makeRequest(tt.method, tt.path, &buf))

			assert.Equal(t, tt.handlerStatus, rr.Code)
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1024)))
		w.WriteHeader(http.StatusInternalServerError)
	})

	rr := httptest.NewRecorder()
	newTestHandler().withLogging(next).ServeHTTP(rr, makeRequest(http.MethodGet, "/x", &buf))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"size":1024`)
}

func TestWithHashing(t *testing.T) {
	const key = "secret"
	body := `{"aggregateId":"42"}`

	tests := []struct {
		name       string
		hashKey    string
		signature  string
		wantStatus int
	}{
		{name: "no key configured", wantStatus: http.StatusOK},
		{name: "valid signature", hashKey: key, signature: utils.HashString(body, key), wantStatus: http.StatusOK},
		{name: "signature with other key", hashKey: key, signature: utils.HashString(body, "other"), wantStatus: http.StatusBadRequest},
		{name: "missing signature", hashKey: key, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var b bytes.Buffer
				_, _ = b.ReadFrom(r.Body)
				got = b.String()
			})

			req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(utils.HashHeader, tt.signature)
			}
			rr := httptest.NewRecorder()
			h := &Handler{hashKey: tt.hashKey, logger: logger.Nop()}
			h.withHashing(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, body, got, "body must be restored for the next handler")
			}
		})
	}
}

func TestWriteSigned(t *testing.T) {
	h := &Handler{hashKey: "secret", logger: logger.Nop()}

	rr := httptest.NewRecorder()
	h.writeSigned(rr, map[string]string{"id": "1"}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, utils.VerifyHash(rr.Body.Bytes(), rr.Header().Get(utils.HashHeader), "secret"))
}

func TestCheckHTTPMethod(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {})
	router.Route("/api/sync", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {})
		r.Post("/conflicts/{id}/resolve", func(w http.ResponseWriter, r *http.Request) {})
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodPost, "/api/health", http.StatusNotFound},
		{http.MethodGet, "/api/sync/status", http.StatusOK},
		{http.MethodDelete, "/api/sync/status", http.StatusNotFound},
		{http.MethodPost, "/api/sync/conflicts/c1/resolve", http.StatusOK},
		{http.MethodGet, "/api/sync/conflicts/c1/resolve", http.StatusNotFound},
		{http.MethodGet, "/api/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
