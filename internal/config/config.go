package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields fetchlab reads from its config file.
type Config struct {
	APIURL         string
	APIKey         string
	RequestTimeout time.Duration
	NarrationPace  float64 // multiplier applied to narration delays
}

const (
	defaultConfigPath = "~/.config/fetchlab/config.toml"
	defaultAPIURL     = "https://api.thecatapi.com"
	defaultTimeout    = 10 * time.Second
	defaultPace       = 1.0
)

// Load locates and parses the config, falling back to defaults when the
// file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultTimeout,
		NarrationPace:  defaultPace,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL           string  `toml:"api_url"`
		APIKey           string  `toml:"api_key"`
		RequestTimeoutMS int     `toml:"request_timeout_ms"`
		NarrationPace    float64 `toml:"narration_pace"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if u := strings.TrimSpace(raw.APIURL); u != "" {
		cfg.APIURL = u
	}
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}
	if raw.NarrationPace > 0 {
		cfg.NarrationPace = raw.NarrationPace
	}

	return cfg, nil
}

// TranscriptDir returns where exported transcripts are written.
func TranscriptDir() string {
	return mustExpand("~/.local/share/fetchlab")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
