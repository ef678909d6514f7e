// Package config provides configuration loading, merging, and validation
// facilities for the sync daemon.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables (a .env file is loaded first when present)
//  3. Command-line flags
//  4. JSON or YAML config file
//
// [GetClientConfig] returns the typed view used by the runtime and refuses
// to return a configuration that fails [ClientConfig.Validate].
package config
