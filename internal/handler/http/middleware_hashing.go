package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
)

// withHashing verifies the HashSHA256 header against the raw request body
// when a hash key is configured.
func (h *Handler) withHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		signature := r.Header.Get(utils.HashHeader)
		if !utils.VerifyHash(body, signature, h.hashKey) {
			log.Error().Str("func", "*Handler.withHashing").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			writeError(w, r, "*Handler.withHashing", ErrIntegrityCheck)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeSigned writes data as JSON and signs the body when a hash key is
// configured.
func (h *Handler) writeSigned(w http.ResponseWriter, data any, statusCode int) {
	if h.hashKey == "" {
		utils.WriteJSON(w, data, statusCode)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Err(err).Str("func", "*Handler.writeSigned").Msg("failed to marshal response")
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(utils.HashHeader, utils.HashBytes(body, h.hashKey))
	w.WriteHeader(statusCode)
	w.Write(body)
}
