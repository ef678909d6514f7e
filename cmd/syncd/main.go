// Command syncd runs the offline-first event sync daemon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-event-sync/internal/client"
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("syncd").Fatal().Err(err).Msg("error getting configs")
	}

	log, err := logger.New("syncd", cfg.Log.File, cfg.Log.Level)
	if err != nil {
		logger.NewLogger("syncd").Fatal().Err(err).Msg("error creating logger")
	}

	log.Debug().
		Str("api_url", cfg.Sync.APIURL).
		Str("store_id", cfg.Sync.StoreID).
		Str("device_id", cfg.Sync.DeviceID).
		Str("storage_driver", cfg.Storage.Driver).
		Str("network_mode", cfg.Network.Mode).
		Str("conflict_strategy", string(cfg.Sync.ConflictStrategy)).
		Msg("received configs")

	ctx := context.Background()
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init sync daemon error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync daemon run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
