// Package config loads and validates application settings from an optional
// config.yaml and FISZKI_-prefixed environment variables.
package config
