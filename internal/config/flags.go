package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line flags in args.
//
// Flags:
//
//	-a local API address in format [host]:[port]
//	-u remote sync endpoint URL
//	-i sync interval (ms or duration)
//	-r max retries
//	-b batch size
//	-t request timeout (ms or duration)
//	-s conflict strategy (LWW or MANUAL)
//	-background enable background sync
//	-store-id local store identifier
//	-device-id device identifier
//	-driver storage driver
//	-d storage DSN
//	-k hash key
//	-network-mode probe or manual
//	-probe-url connectivity probe URL
//	-otlp OTLP collector endpoint
//	-log-level logger level
//	-log-file log file path
//	-c/-config JSON or YAML config file path
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet(commandName(), flag.ContinueOnError)

	var (
		cfg           StructuredConfig
		serverAddress NetAddress
	)

	fs.Var(&serverAddress, "a", "Local API net address host:port")
	fs.StringVar(&cfg.Sync.APIURL, "u", "", "Remote sync endpoint URL")
	fs.Func("i", "Sync interval (e.g. 30000 or 30s)", durationFlag(&cfg.Sync.SyncInterval))
	fs.Func("r", "Max retries after the first attempt", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		cfg.Sync.MaxRetries = &n
		return nil
	})
	fs.Func("b", "Push batch size", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		cfg.Sync.BatchSize = &n
		return nil
	})
	fs.Func("t", "Request timeout (e.g. 45000 or 45s)", durationFlag(&cfg.Sync.Timeout))
	fs.StringVar(&cfg.Sync.ConflictStrategy, "s", "", "Conflict strategy: LWW or MANUAL")
	fs.Func("background", "Enable background sync (true/false)", func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		cfg.Sync.EnableBackgroundSync = &v
		return nil
	})
	fs.StringVar(&cfg.Sync.StoreID, "store-id", "", "Local store identifier")
	fs.StringVar(&cfg.Sync.DeviceID, "device-id", "", "Device identifier")
	fs.StringVar(&cfg.Sync.HashKey, "k", "", "Security hash key")
	fs.StringVar(&cfg.Storage.Driver, "driver", "", "Storage driver: sqlite, postgres, redis, memory")
	fs.StringVar(&cfg.Storage.DSN, "d", "", "Storage DSN")
	fs.StringVar(&cfg.Network.Mode, "network-mode", "", "Connectivity detection: probe or manual")
	fs.StringVar(&cfg.Network.ProbeURL, "probe-url", "", "Connectivity probe URL")
	fs.StringVar(&cfg.Metrics.OTLPEndpoint, "otlp", "", "OTLP collector endpoint")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")
	fs.StringVar(&cfg.FilePath, "c", "", "Config file path")
	fs.StringVar(&cfg.FilePath, "config", "", "Config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	return &cfg, nil
}

// durationFlag sets *dst only when the flag is given, so an explicit zero
// reaches validation instead of being replaced by the default.
func durationFlag(dst **Duration) func(string) error {
	return func(s string) error {
		var d Duration
		if err := d.UnmarshalText([]byte(s)); err != nil {
			return err
		}
		*dst = &d
		return nil
	}
}

func commandName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "syncd"
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format is invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
