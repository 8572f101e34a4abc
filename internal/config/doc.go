// Package config loads fetchlab's TOML configuration. A missing file is
// not an error: every field has a default, including the public cat API
// endpoint, so the app runs with zero setup.
package config
