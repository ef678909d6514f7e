// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

var (
	// ErrUnknownConfigFormat is returned when the config file extension is
	// neither JSON nor YAML.
	ErrUnknownConfigFormat = errors.New("unknown config file format")
)
