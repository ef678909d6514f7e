// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// StructuredConfig is the raw configuration container of the sync daemon.
// It is populated by merging defaults, environment variables, command-line
// flags and an optional JSON or YAML file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
//   - json/yaml: keys used when the config file is parsed.
type StructuredConfig struct {
	// Sync holds the engine settings. Its variables carry no prefix
	// (API_URL, SYNC_INTERVAL, ...).
	Sync Sync `json:"sync" yaml:"sync"`

	// Storage selects and configures the local event store.
	Storage Storage `envPrefix:"STORAGE_" json:"storage" yaml:"storage"`

	// Server holds the local status API settings.
	Server Server `envPrefix:"SERVER_" json:"server" yaml:"server"`

	// Network configures connectivity detection.
	Network Network `envPrefix:"NETWORK_" json:"network" yaml:"network"`

	// Metrics configures the OpenTelemetry exporter.
	Metrics Metrics `envPrefix:"METRICS_" json:"metrics" yaml:"metrics"`

	// Log configures the daemon logger.
	Log Log `envPrefix:"LOG_" json:"log" yaml:"log"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG" json:"-" yaml:"-"`
}

// Sync holds the settings of the sync coordinator.
type Sync struct {
	// APIURL is the base URL of the remote sync endpoint.
	// Env: API_URL
	APIURL string `env:"API_URL" json:"api_url" yaml:"api_url"`

	// SyncInterval is the period of background cycles. Plain integers are
	// milliseconds. Env: SYNC_INTERVAL
	SyncInterval *Duration `env:"SYNC_INTERVAL" json:"sync_interval" yaml:"sync_interval"`

	// MaxRetries is the number of retries after the first attempt.
	// Env: MAX_RETRIES
	MaxRetries *int `env:"MAX_RETRIES" json:"max_retries" yaml:"max_retries"`

	// BatchSize is the maximum number of events per push request.
	// Env: BATCH_SIZE
	BatchSize *int `env:"BATCH_SIZE" json:"batch_size" yaml:"batch_size"`

	// Timeout bounds a single remote request. Env: TIMEOUT
	Timeout *Duration `env:"TIMEOUT" json:"timeout" yaml:"timeout"`

	// ConflictStrategy is LWW or MANUAL. Env: CONFLICT_STRATEGY
	ConflictStrategy string `env:"CONFLICT_STRATEGY" json:"conflict_strategy" yaml:"conflict_strategy"`

	// EnableBackgroundSync turns the periodic scheduler on.
	// Env: ENABLE_BACKGROUND_SYNC
	EnableBackgroundSync *bool `env:"ENABLE_BACKGROUND_SYNC" json:"enable_background_sync" yaml:"enable_background_sync"`

	// StoreID names the local event store. Env: STORE_ID
	StoreID string `env:"STORE_ID" json:"store_id" yaml:"store_id"`

	// DeviceID identifies this producer. Defaults to the host name.
	// Env: DEVICE_ID
	DeviceID string `env:"DEVICE_ID" json:"device_id" yaml:"device_id"`

	// InitialBackoff and MaxBackoff bound the retry delays.
	// Env: INITIAL_BACKOFF, MAX_BACKOFF
	InitialBackoff Duration `env:"INITIAL_BACKOFF" json:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff     Duration `env:"MAX_BACKOFF" json:"max_backoff" yaml:"max_backoff"`

	// HashKey is the HMAC key used to sign request bodies (HashSHA256 header).
	// Env: HASH_KEY
	HashKey string `env:"HASH_KEY" json:"hash_key" yaml:"hash_key"`
}

// Storage selects the local store adapter.
type Storage struct {
	// Driver is one of sqlite, postgres, redis, memory.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER" json:"driver" yaml:"driver"`

	// DSN is the driver specific connection string or file path.
	// Env: STORAGE_DSN
	DSN string `env:"DSN" json:"dsn" yaml:"dsn"`
}

// Server holds the local status API settings.
type Server struct {
	// HTTPAddress is the "host:port" the local API listens on. Empty
	// disables the API. Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address" yaml:"http_address"`
}

// Network configures how connectivity is detected.
type Network struct {
	// Mode is "probe" (HTTP health probe) or "manual" (host platform pushes
	// transitions through the local API). Env: NETWORK_MODE
	Mode string `env:"MODE" json:"mode" yaml:"mode"`

	// ProbeURL is polled in probe mode. Env: NETWORK_PROBE_URL
	ProbeURL string `env:"PROBE_URL" json:"probe_url" yaml:"probe_url"`

	// ProbeInterval is the probe period. Env: NETWORK_PROBE_INTERVAL
	ProbeInterval Duration `env:"PROBE_INTERVAL" json:"probe_interval" yaml:"probe_interval"`

	// Debounce delays the cycle fired on reconnect. Env: NETWORK_DEBOUNCE
	Debounce Duration `env:"DEBOUNCE" json:"debounce" yaml:"debounce"`
}

// Metrics configures the OTLP exporter.
type Metrics struct {
	// OTLPEndpoint is the collector "host:port". Empty disables export.
	// Env: METRICS_OTLP_ENDPOINT
	OTLPEndpoint string `env:"OTLP_ENDPOINT" json:"otlp_endpoint" yaml:"otlp_endpoint"`

	// Insecure disables TLS towards the collector. Env: METRICS_INSECURE
	Insecure bool `env:"INSECURE" json:"insecure" yaml:"insecure"`
}

// Log configures the daemon logger.
type Log struct {
	// Level is a zerolog level name (debug, info, warn, error).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL" json:"level" yaml:"level"`

	// File redirects output to a file; a relative path is resolved next to
	// the binary. Env: LOG_FILE
	File string `env:"FILE" json:"file" yaml:"file"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. Config file (path resolved from sources 2 and 3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
