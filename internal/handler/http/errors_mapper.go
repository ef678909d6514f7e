package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/service"
	"github.com/MKhiriev/go-event-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrSyncInProgress:   http.StatusConflict,
	service.ErrNoActiveSync:     http.StatusConflict,
	service.ErrSyncCancelled:    http.StatusConflict,
	service.ErrOffline:          http.StatusServiceUnavailable,
	service.ErrConflictNotFound: http.StatusNotFound,

	ErrInvalidJSON:        http.StatusBadRequest,
	ErrIntegrityCheck:     http.StatusBadRequest,
	ErrManualConnectivity: http.StatusConflict,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}

	switch app.ErrorCode(err) {
	case models.ErrorCodeValidation:
		return http.StatusBadRequest
	case models.ErrorCodeTransport, models.ErrorCodeServerRejection:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
