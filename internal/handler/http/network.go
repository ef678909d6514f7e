package http

import (
	"net/http"

	"github.com/MKhiriev/go-event-sync/internal/logger"
)

type networkRequest struct {
	Online *bool `json:"online"`
}

// setNetwork forwards the host connectivity signal to the channel source.
// The monitor applies the transition to the coordinator.
func (h *Handler) setNetwork(w http.ResponseWriter, r *http.Request) {
	if h.network == nil {
		writeError(w, r, "*Handler.setNetwork", ErrManualConnectivity)
		return
	}

	var req networkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.setNetwork", err)
		return
	}
	if req.Online == nil {
		writeError(w, r, "*Handler.setNetwork", ErrInvalidJSON)
		return
	}

	h.network.Set(*req.Online)
	logger.FromRequest(r).Info().Bool("online", *req.Online).Msg("connectivity signal received")

	w.WriteHeader(http.StatusAccepted)
}
