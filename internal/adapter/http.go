package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/utils"
	"github.com/MKhiriev/go-event-sync/models"
)

// Remote endpoint paths.
const (
	PushPath = "/api/sync/push"
	PullPath = "/api/sync/pull"
)

type httpRemoteAdapter struct {
	client *utils.HTTPClient

	hashKey string

	logger *logger.Logger
}

// NewHTTPRemoteAdapter constructs an HTTP/REST implementation of
// [RemoteAdapter]. It normalises cfg.APIURL, bounds every request with
// cfg.Timeout and signs request bodies with cfg.HashKey when it is set.
//
// Returns an error if cfg.APIURL is empty or cannot be parsed as a URL.
func NewHTTPRemoteAdapter(cfg config.SyncConfig, logger *logger.Logger) (RemoteAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sync api address: %w", err)
	}

	return &httpRemoteAdapter{
		client:  utils.NewHTTPClient(baseURL, cfg.Timeout),
		hashKey: cfg.HashKey,
		logger:  logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Push implements [RemoteAdapter]. It POSTs the batch to /api/sync/push with
// an HMAC of the body in the HashSHA256 header.
func (h *httpRemoteAdapter) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("encode push request: %w", err)
	}

	request := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if h.hashKey != "" {
		request.SetHeader(utils.HashHeader, utils.HashBytes(body, h.hashKey))
	}

	resp, err := request.Post(PushPath)
	if err != nil {
		log.Err(err).Str("func", "httpRemoteAdapter.Push").Int("batch_size", len(req.Events)).Msg("push request failed")
		return models.PushResponse{}, &app.TransportError{Op: "push", Err: err}
	}
	if err = mapHTTPError("push", resp); err != nil {
		log.Err(err).Str("func", "httpRemoteAdapter.Push").Int("status", resp.StatusCode()).Msg("push rejected")
		return models.PushResponse{}, err
	}

	var result models.PushResponse
	if err = h.decode("push", resp, &result); err != nil {
		return models.PushResponse{}, err
	}

	return result, nil
}

// Pull implements [RemoteAdapter]. It GETs /api/sync/pull with the cursor,
// page size and device id as query parameters.
func (h *httpRemoteAdapter) Pull(ctx context.Context, req models.PullRequest) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	request := h.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(req.Limit))
	if req.Cursor != "" {
		request.SetQueryParam("cursor", req.Cursor)
	}
	if req.DeviceID != "" {
		request.SetQueryParam("deviceId", req.DeviceID)
	}

	resp, err := request.Get(PullPath)
	if err != nil {
		log.Err(err).Str("func", "httpRemoteAdapter.Pull").Str("cursor", req.Cursor).Msg("pull request failed")
		return models.PullResponse{}, &app.TransportError{Op: "pull", Err: err}
	}
	if err = mapHTTPError("pull", resp); err != nil {
		log.Err(err).Str("func", "httpRemoteAdapter.Pull").Int("status", resp.StatusCode()).Msg("pull rejected")
		return models.PullResponse{}, err
	}

	var result models.PullResponse
	if err = h.decode("pull", resp, &result); err != nil {
		return models.PullResponse{}, err
	}

	return result, nil
}

// decode verifies the optional response signature and unmarshals the body.
// A corrupted or truncated answer is treated as a transport failure.
func (h *httpRemoteAdapter) decode(op string, resp *resty.Response, dst any) error {
	body := resp.Body()

	if signature := resp.Header().Get(utils.HashHeader); signature != "" && h.hashKey != "" {
		if !utils.VerifyHash(body, signature, h.hashKey) {
			return &app.TransportError{Op: op, StatusCode: resp.StatusCode(), Err: ErrInvalidResponseHash}
		}
	}

	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &app.TransportError{Op: op, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode %s response: %w", op, err)}
	}
	return nil
}
