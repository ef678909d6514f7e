package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
)

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.services.Status.Status(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.getStatus", err)
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Coordinator.State(), http.StatusOK)
}

func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Coordinator.Statistics(), http.StatusOK)
}

func (h *Handler) getConflicts(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Coordinator.Conflicts(), http.StatusOK)
}

func (h *Handler) getAudit(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Coordinator.Audit(), http.StatusOK)
}

// retryAll runs a cycle and waits for its result. A client disconnect does
// not abort the cycle; POST /api/sync/cancel does.
func (h *Handler) retryAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.Coordinator.RetryAll(context.WithoutCancel(r.Context()))
	if err != nil {
		writeError(w, r, "*Handler.retryAll", err)
		return
	}

	logger.FromRequest(r).Info().
		Int("pushed", result.Pushed).
		Int("pulled", result.Pulled).
		Msg("manual sync finished")
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) cancelSync(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Coordinator.Cancel(); err != nil {
		writeError(w, r, "*Handler.cancelSync", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) dismissError(w http.ResponseWriter, r *http.Request) {
	h.services.Coordinator.DismissError(chi.URLParam(r, "code"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	conflictID := chi.URLParam(r, "id")

	var resolution eventRequest
	if err := decodeJSON(r, &resolution); err != nil {
		writeError(w, r, "*Handler.resolveConflict", err)
		return
	}

	row, err := h.services.Coordinator.ResolveConflict(r.Context(), conflictID, resolution.toEvent())
	if err != nil {
		writeError(w, r, "*Handler.resolveConflict", err)
		return
	}

	logger.FromRequest(r).Info().
		Str("conflict_id", conflictID).
		Str("event_id", row.ID).
		Msg("conflict resolved")
	h.writeSigned(w, row, http.StatusOK)
}
