package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/api/health", h.health)
	router.Get("/api/version", h.getVersion)

	router.Route("/api/sync", func(r chi.Router) {
		r.Get("/status", h.getStatus)
		r.Get("/state", h.getState)
		r.Get("/statistics", h.getStatistics)
		r.Get("/audit", h.getAudit)

		r.Post("/retry", h.retryAll)
		r.Post("/cancel", h.cancelSync)
		r.Delete("/errors/{code}", h.dismissError)

		r.Get("/conflicts", h.getConflicts)
		r.With(h.withHashing).Post("/conflicts/{id}/resolve", h.resolveConflict)
	})

	router.With(h.withHashing).Post("/api/events", h.appendEvent)
	router.Post("/api/network", h.setNetwork)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
