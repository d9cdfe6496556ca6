// Package config handles configuration management for locmerge.
// It layers the embedded defaults, an optional TOML or YAML file and
// LOCMERGE_ environment variables.
package config
