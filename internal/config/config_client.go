package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MKhiriev/go-event-sync/models"
)

// SyncConfig holds the validated settings of the sync coordinator.
type SyncConfig struct {
	APIURL               string
	SyncInterval         time.Duration
	MaxRetries           int
	BatchSize            int
	Timeout              time.Duration
	ConflictStrategy     models.ConflictStrategy
	EnableBackgroundSync bool
	StoreID              string
	DeviceID             string
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	HashKey              string
}

// ClientStorage selects the local store adapter.
type ClientStorage struct {
	Driver string
	DSN    string
}

// ClientServer holds the local status API settings.
type ClientServer struct {
	// HTTPAddress is empty when the API is disabled.
	HTTPAddress string
}

// ClientNetwork configures connectivity detection.
type ClientNetwork struct {
	Mode          string
	ProbeURL      string
	ProbeInterval time.Duration
	Debounce      time.Duration
}

// ClientMetrics configures the OTLP exporter.
type ClientMetrics struct {
	OTLPEndpoint string
	Insecure     bool
}

// ClientLog configures the daemon logger.
type ClientLog struct {
	Level string
	File  string
}

// ClientConfig is the top-level runtime configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Sync    SyncConfig
	Storage ClientStorage
	Server  ClientServer
	Network ClientNetwork
	Metrics ClientMetrics
	Log     ClientLog
}

// GetClientConfig loads a .env file when present, builds the merged
// structured configuration from args and the environment, maps it to
// [ClientConfig] and validates the result.
//
// An invalid configuration is never returned: the error wraps an
// *app.ValidationError listing every offending field.
func GetClientConfig(args []string) (*ClientConfig, error) {
	// a missing .env file is not an error
	_ = godotenv.Load()

	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	if result := clientCfg.Validate(); !result.IsValid {
		return nil, fmt.Errorf("invalid configuration: %w", result.Err())
	}

	return clientCfg, nil
}

// NewClientConfig maps cfg to a [ClientConfig] and fills the values derived
// from other fields (device id, sqlite file name, probe URL).
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		Sync: SyncConfig{
			APIURL:           strings.TrimRight(cfg.Sync.APIURL, "/"),
			SyncInterval:     durationValue(cfg.Sync.SyncInterval),
			BatchSize:        intValue(cfg.Sync.BatchSize),
			Timeout:          durationValue(cfg.Sync.Timeout),
			ConflictStrategy: models.ConflictStrategy(strings.ToUpper(cfg.Sync.ConflictStrategy)),
			StoreID:          cfg.Sync.StoreID,
			DeviceID:         cfg.Sync.DeviceID,
			InitialBackoff:   cfg.Sync.InitialBackoff.Std(),
			MaxBackoff:       cfg.Sync.MaxBackoff.Std(),
			HashKey:          cfg.Sync.HashKey,
		},
		Storage: ClientStorage{
			Driver: strings.ToLower(cfg.Storage.Driver),
			DSN:    cfg.Storage.DSN,
		},
		Server: ClientServer{
			HTTPAddress: cfg.Server.HTTPAddress,
		},
		Network: ClientNetwork{
			Mode:          strings.ToLower(cfg.Network.Mode),
			ProbeURL:      cfg.Network.ProbeURL,
			ProbeInterval: cfg.Network.ProbeInterval.Std(),
			Debounce:      cfg.Network.Debounce.Std(),
		},
		Metrics: ClientMetrics{
			OTLPEndpoint: cfg.Metrics.OTLPEndpoint,
			Insecure:     cfg.Metrics.Insecure,
		},
		Log: ClientLog{
			Level: strings.ToLower(cfg.Log.Level),
			File:  cfg.Log.File,
		},
	}

	if cfg.Sync.MaxRetries != nil {
		clientCfg.Sync.MaxRetries = *cfg.Sync.MaxRetries
	}
	if cfg.Sync.EnableBackgroundSync != nil {
		clientCfg.Sync.EnableBackgroundSync = *cfg.Sync.EnableBackgroundSync
	}

	if clientCfg.Sync.DeviceID == "" {
		if host, err := os.Hostname(); err == nil {
			clientCfg.Sync.DeviceID = host
		}
	}

	if clientCfg.Storage.Driver == "sqlite" && clientCfg.Storage.DSN == "" && clientCfg.Sync.StoreID != "" {
		clientCfg.Storage.DSN = clientCfg.Sync.StoreID + ".db"
	}

	if clientCfg.Network.Mode == "probe" && clientCfg.Network.ProbeURL == "" && clientCfg.Sync.APIURL != "" {
		clientCfg.Network.ProbeURL = clientCfg.Sync.APIURL + DefaultHealthPath
	}

	return clientCfg
}
