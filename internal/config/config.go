package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the global ~/.adminterm/config.toml.
type Config struct {
	DefaultProfile string    `toml:"default_profile"`
	Backend        Backend   `toml:"backend"`
	Channel        Channel   `toml:"channel"`
	Log            LogConfig `toml:"log"`
}

// Backend configures the REST client.
type Backend struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// Channel configures the messaging WebSocket.
type Channel struct {
	URL   string `toml:"url"`
	Event string `toml:"event"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that reads and writes as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: Backend{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{30 * time.Second},
		},
		Channel: Channel{
			URL:   "ws://localhost:8000/ws",
			Event: "message",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads path over the defaults. A missing file is not an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Environment overrides.
const (
	EnvProfile        = "ADMINTERM_PROFILE"
	EnvBackendURL     = "ADMINTERM_BACKEND_URL"
	EnvBackendTimeout = "ADMINTERM_BACKEND_TIMEOUT"
	EnvChannelURL     = "ADMINTERM_CHANNEL_URL"
	EnvChannelEvent   = "ADMINTERM_CHANNEL_EVENT"
	EnvLogLevel       = "ADMINTERM_LOG_LEVEL"
)

// LoadDotenv loads the given .env files into the process environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays ADMINTERM_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvProfile); ok && v != "" {
		cfg.DefaultProfile = v
	}
	if v, ok := os.LookupEnv(EnvBackendURL); ok && v != "" {
		cfg.Backend.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvBackendTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are seconds.
			secs, convErr := strconv.Atoi(v)
			if convErr != nil {
				return fmt.Errorf("%s: %w", EnvBackendTimeout, err)
			}
			d = time.Duration(secs) * time.Second
		}
		cfg.Backend.Timeout = Duration{d}
	}
	if v, ok := os.LookupEnv(EnvChannelURL); ok && v != "" {
		cfg.Channel.URL = v
	}
	if v, ok := os.LookupEnv(EnvChannelEvent); ok && v != "" {
		cfg.Channel.Event = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}
