// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// daemonEnvPrefix namespaces variables for hosts where names such as
// TIMEOUT or API_URL are already taken. SYNCD_TIMEOUT wins over TIMEOUT.
const daemonEnvPrefix = "SYNCD_"

// environ returns the process environment with SYNCD_-prefixed variables
// folded onto their plain names.
func environ() map[string]string {
	vars := env.ToMap(os.Environ())
	for key, value := range vars {
		if name, ok := strings.CutPrefix(key, daemonEnvPrefix); ok && name != "" {
			vars[name] = value
		}
	}
	return vars
}

// parseEnv populates cfg from vars using the `env` and `envPrefix` tags on
// [StructuredConfig] and its nested types.
func parseEnv(cfg any, vars map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
