package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/models"
)

// Rejection reasons used for batch-level refusals.
const (
	ReasonBadRequest    = "BAD_REQUEST"
	ReasonUnauthorized  = "UNAUTHORIZED"
	ReasonForbidden     = "FORBIDDEN"
	ReasonNotFound      = "NOT_FOUND"
	ReasonConflict      = models.RejectionCodeConflict
	ReasonUnprocessable = "UNPROCESSABLE"
	ReasonHTTP          = "HTTP_ERROR"
)

// mapHTTPError converts a non-2xx response of op into the sync error
// taxonomy. It returns nil for 2xx.
func mapHTTPError(op string, resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(status)
	}

	transport := func(sentinel error) error {
		return &app.TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("%w: %s", sentinel, body)}
	}
	rejection := func(reason string, sentinel error) error {
		return &app.ServerRejectionError{Reason: reason, Message: body, Err: sentinel}
	}

	switch status {
	case http.StatusRequestTimeout:
		return transport(ErrRequestTimeout)
	case http.StatusTooManyRequests:
		return transport(ErrTooManyRequests)
	case http.StatusInternalServerError:
		return transport(ErrInternalServerError)
	case http.StatusBadGateway:
		return transport(ErrBadGateway)
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return transport(ErrServiceUnavailable)
	case http.StatusBadRequest:
		return rejection(ReasonBadRequest, ErrBadRequest)
	case http.StatusUnauthorized:
		return rejection(ReasonUnauthorized, ErrUnauthorized)
	case http.StatusForbidden:
		return rejection(ReasonForbidden, ErrForbidden)
	case http.StatusNotFound:
		return rejection(ReasonNotFound, ErrNotFound)
	case http.StatusConflict:
		return rejection(ReasonConflict, ErrConflict)
	case http.StatusUnprocessableEntity:
		return rejection(ReasonUnprocessable, ErrUnprocessable)
	}

	if status >= http.StatusInternalServerError {
		return transport(fmt.Errorf("http %d", status))
	}
	return rejection(ReasonHTTP, fmt.Errorf("http %d", status))
}
