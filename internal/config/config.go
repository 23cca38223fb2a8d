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

	"github.com/five82/pulsar/internal/store"
)

// Config holds the settings pulsar reads at startup.
type Config struct {
	// StorePath is the SQLite database; empty keeps entities in memory.
	StorePath string
	// APIBind is the relay to poll; empty disables polling.
	APIBind        string
	PollInterval   time.Duration
	Filter         string
	Order          store.Order
	SearchThrottle time.Duration
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/pulsar/config.toml"
	defaultLogFile        = "~/.local/state/pulsar/pulsar.log"
	defaultLogLevel       = "info"
	defaultPollInterval   = 2 * time.Second
	defaultSearchThrottle = 330 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PollInterval:   defaultPollInterval,
		SearchThrottle: defaultSearchThrottle,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

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
		StorePath        string `toml:"store_path"`
		APIBind          string `toml:"api_bind"`
		PollSeconds      int    `toml:"poll_seconds"`
		Filter           string `toml:"filter"`
		Order            string `toml:"order"`
		SearchThrottleMS int    `toml:"search_throttle_ms"`
		LogFile          string `toml:"log_file"`
		LogLevel         string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if p := strings.TrimSpace(raw.StorePath); p != "" {
		cfg.StorePath = mustExpand(p)
	}
	cfg.APIBind = strings.TrimSpace(raw.APIBind)
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	cfg.Filter = strings.TrimSpace(raw.Filter)
	if cfg.Filter != "" {
		if _, err := store.CompileFilter(cfg.Filter); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Order, err = store.ParseOrder(raw.Order)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if raw.SearchThrottleMS > 0 {
		cfg.SearchThrottle = time.Duration(raw.SearchThrottleMS) * time.Millisecond
	}
	if p := strings.TrimSpace(raw.LogFile); p != "" {
		cfg.LogFile = mustExpand(p)
	}
	if lvl := strings.ToLower(strings.TrimSpace(raw.LogLevel)); lvl != "" {
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

// Query returns the store query described by the config.
func (c Config) Query() store.Query {
	return store.Query{Filter: c.Filter, Order: c.Order}
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
