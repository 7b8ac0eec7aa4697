package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName     = ".tfwatch"
	configFileName    = "config.json"
	watchlistFileName = "watchlist.yaml"
)

// defaults seeds viper before the file and environment are consulted.
// Registering a key here also exposes it to AutomaticEnv, so every
// configurable knob must appear in this map.
func defaults(home string) map[string]any {
	return map[string]any{
		"watch.interval_seconds":       60,
		"watch.duration_seconds":       0,
		"watch.concurrency":            500,
		"watch.countdown_step_seconds": 1,
		"watch.sentinel":               "full",
		"watch.watchlist_path":         filepath.Join(home, configDirName, watchlistFileName),
		"notify.platforms":             []string{"bark"},
		"notify.webhooks":              []string{},
		"notify.bark":                  []string{},
		"notify.wechat_key":            "",
	}
}

// Load returns the effective configuration: defaults, overlaid by the config
// file when one exists, overlaid by environment variables (WATCH_CONCURRENCY
// and friends). path overrides the default ~/.tfwatch/config.json location.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: no home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, val := range defaults(home) {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, configDirName))
	}

	// A config file is optional until onboard writes one; only a file that
	// exists but cannot be read or parsed is fatal.
	if err := v.ReadInConfig(); err != nil && !missingConfig(err) {
		return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if after, ok := strings.CutPrefix(cfg.Watch.WatchlistPath, "~/"); ok {
		cfg.Watch.WatchlistPath = filepath.Join(home, after)
	}
	return &cfg, nil
}

// missingConfig reports whether err means "no config file". Viper signals
// that two different ways depending on whether an explicit path was set.
func missingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Save writes cfg as indented JSON, creating the parent directory first.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath("")
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Dir returns the tfwatch home, ~/.tfwatch.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the effective config file location.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// WatchlistPath returns the watchlist location, honoring the config override.
func WatchlistPath(cfg *Config) (string, error) {
	if cfg != nil && cfg.Watch.WatchlistPath != "" {
		return cfg.Watch.WatchlistPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, watchlistFileName), nil
}

// EnsureDir creates ~/.tfwatch if it does not exist yet.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}
