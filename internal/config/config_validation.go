// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/app"
)

// Bounds of the sync settings.
const (
	MinSyncInterval = 5 * time.Second
	MinTimeout      = 10 * time.Second
	MinMaxRetries   = 0
	MaxMaxRetries   = 10
	MinBatchSize    = 1
	MaxBatchSize    = 1000
)

// Field names reported by validation. They match the environment keys.
const (
	FieldAPIURL           = "API_URL"
	FieldSyncInterval     = "SYNC_INTERVAL"
	FieldMaxRetries       = "MAX_RETRIES"
	FieldBatchSize        = "BATCH_SIZE"
	FieldTimeout          = "TIMEOUT"
	FieldConflictStrategy = "CONFLICT_STRATEGY"
	FieldStoreID          = "STORE_ID"
	FieldDeviceID         = "DEVICE_ID"
	FieldInitialBackoff   = "INITIAL_BACKOFF"
	FieldMaxBackoff       = "MAX_BACKOFF"
	FieldStorageDriver    = "STORAGE_DRIVER"
	FieldStorageDSN       = "STORAGE_DSN"
	FieldNetworkMode      = "NETWORK_MODE"
	FieldProbeURL         = "NETWORK_PROBE_URL"
	FieldProbeInterval    = "NETWORK_PROBE_INTERVAL"
	FieldLogLevel         = "LOG_LEVEL"
)

// ValidationResult itemizes every violation found in a configuration.
type ValidationResult struct {
	IsValid bool             `json:"isValid"`
	Errors  []app.FieldError `json:"errors"`
}

// Err returns nil for a valid result and an *app.ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return app.NewValidationError(r.Errors...)
}

type validationCollector struct {
	errors []app.FieldError
}

func (c *validationCollector) add(field, format string, args ...any) {
	c.errors = append(c.errors, app.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *validationCollector) result() ValidationResult {
	return ValidationResult{IsValid: len(c.errors) == 0, Errors: c.errors}
}

// Validate checks the sync settings and reports every invalid field.
func (c *SyncConfig) Validate() ValidationResult {
	v := &validationCollector{}
	c.validate(v)
	return v.result()
}

func (c *SyncConfig) validate(v *validationCollector) {
	if c.APIURL == "" {
		v.add(FieldAPIURL, "must be set")
	} else if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add(FieldAPIURL, "must be an absolute http(s) URL, got %q", c.APIURL)
	}

	if c.SyncInterval < MinSyncInterval {
		v.add(FieldSyncInterval, "must be at least %dms, got %dms", MinSyncInterval.Milliseconds(), c.SyncInterval.Milliseconds())
	}

	if c.MaxRetries < MinMaxRetries || c.MaxRetries > MaxMaxRetries {
		v.add(FieldMaxRetries, "must be between %d and %d, got %d", MinMaxRetries, MaxMaxRetries, c.MaxRetries)
	}

	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		v.add(FieldBatchSize, "must be between %d and %d, got %d", MinBatchSize, MaxBatchSize, c.BatchSize)
	}

	if c.Timeout < MinTimeout {
		v.add(FieldTimeout, "must be at least %dms, got %dms", MinTimeout.Milliseconds(), c.Timeout.Milliseconds())
	}

	if !c.ConflictStrategy.Valid() {
		v.add(FieldConflictStrategy, "must be LWW or MANUAL, got %q", c.ConflictStrategy)
	}

	if c.StoreID == "" {
		v.add(FieldStoreID, "must be set")
	}

	if c.DeviceID == "" {
		v.add(FieldDeviceID, "must be set")
	}

	if c.InitialBackoff <= 0 {
		v.add(FieldInitialBackoff, "must be positive")
	}

	if c.MaxBackoff < c.InitialBackoff {
		v.add(FieldMaxBackoff, "must not be lower than %s", FieldInitialBackoff)
	}
}

// Validate checks the whole runtime configuration. The coordinator must not
// start unless the result is valid.
func (c *ClientConfig) Validate() ValidationResult {
	v := &validationCollector{}
	c.Sync.validate(v)

	switch c.Storage.Driver {
	case "sqlite", "memory":
	case "postgres", "redis":
		if c.Storage.DSN == "" {
			v.add(FieldStorageDSN, "must be set for driver %q", c.Storage.Driver)
		}
	default:
		v.add(FieldStorageDriver, "must be one of sqlite, postgres, redis, memory, got %q", c.Storage.Driver)
	}

	switch c.Network.Mode {
	case "manual":
	case "probe":
		if c.Network.ProbeURL == "" {
			v.add(FieldProbeURL, "must be set in probe mode")
		}
		if c.Network.ProbeInterval <= 0 {
			v.add(FieldProbeInterval, "must be positive")
		}
	default:
		v.add(FieldNetworkMode, "must be probe or manual, got %q", c.Network.Mode)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		v.add(FieldLogLevel, "must be debug, info, warn or error, got %q", c.Log.Level)
	}

	return v.result()
}
