// Package config loads the bot configuration from YAML, fills unset values
// with defaults and converts it into the slot table and perception settings
// consumed by the runtime.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"flyff-farm-bot/internal/slots"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Operating modes.
const (
	ModeStop    = "stop"
	ModeFarming = "farming"
)

// Input and capture backends.
const (
	BackendBrowser = "browser"
	BackendNative  = "native"
)

// Config is the root of config.yaml.
type Config struct {
	Mode              string     `yaml:"mode"`
	Backend           string     `yaml:"backend"`
	LogLevel          string     `yaml:"log_level"`
	CaptureIntervalMs int        `yaml:"capture_interval_ms"`
	GameURL           string     `yaml:"game_url"`
	Farming           Farming    `yaml:"farming"`
	Perception        Perception `yaml:"perception"`
	Native            Native     `yaml:"native"`
}

// Native locates the game window on screen for the native backend.
type Native struct {
	WindowX int `yaml:"window_x"`
	WindowY int `yaml:"window_y"`
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode:              ModeStop,
		Backend:           BackendBrowser,
		LogLevel:          "info",
		CaptureIntervalMs: 100,
		GameURL:           "https://universe.flyff.com/play",
		Native:            Native{Width: 800, Height: 600},
		Farming: Farming{
			Slots: []SlotConfig{
				{Bar: 0, Slot: 1, Category: slots.Attack},
				{Bar: 0, Slot: 2, Category: slots.Food, Threshold: intPtr(60)},
				{Bar: 0, Slot: 3, Category: slots.Pill, Threshold: intPtr(30)},
				{Bar: 0, Slot: 4, Category: slots.MPRestorer, Threshold: intPtr(30)},
			},
		},
	}
}

func intPtr(v int) *int { return &v }

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		// Slots replace the default layout instead of merging into it.
		cfg.Farming.Slots = nil
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeStop, ModeFarming:
	default:
		errs = append(errs, fmt.Errorf("mode %q", c.Mode))
	}
	switch c.Backend {
	case BackendBrowser, BackendNative:
	default:
		errs = append(errs, fmt.Errorf("backend %q", c.Backend))
	}
	if c.CaptureIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("capture_interval_ms %d", c.CaptureIntervalMs))
	}
	errs = append(errs, c.Farming.validate()...)
	errs = append(errs, c.Perception.validate()...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// CaptureInterval returns the pause between frames, 100ms when unset.
func (c *Config) CaptureInterval() time.Duration {
	if c.CaptureIntervalMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.CaptureIntervalMs) * time.Millisecond
}

// Level returns the slog level named by LogLevel, info when unknown.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
