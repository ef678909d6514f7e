package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
)

// writeError logs err and answers with the status mapped from it.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Send()

	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		message = app.MsgInternalServerError
	case errors.Is(err, ErrInvalidJSON):
		message = app.MsgInvalidDataProvided
	}
	utils.WriteError(w, message, status)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
