// Package config loads the settings of a block generator simulation from
// defaults, an optional YAML file, optional .env files, and BLOCKGEN_*
// environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when the loaded settings fail validation.
var ErrInvalid = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BLOCKGEN_"

// Config holds all settings.
type Config struct {
	TickRate       uint64        `yaml:"tick_rate" validate:"min=1"`
	RescanInterval uint64        `yaml:"rescan_interval" validate:"min=1"`
	Parallel       bool          `yaml:"parallel"`
	Log            LogConfig     `yaml:"log"`
	Record         RecordConfig  `yaml:"record"`
	Monitor        MonitorConfig `yaml:"monitor"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// RecordConfig controls the SQLite production log.
type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitorConfig controls the HTTP monitor. A zero port picks a free one.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port" validate:"omitempty,min=1024,max=65535"`
	OpenBrowser bool `yaml:"open_browser"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TickRate:       20,
		RescanInterval: 113,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the settings. An empty path skips the YAML file. Missing .env
// files are ignored, but a .env file that cannot be parsed is an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: reading %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return cfg, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setters := []struct {
		name string
		set  func(string) error
	}{
		{"TICK_RATE", uintSetter(&cfg.TickRate)},
		{"RESCAN_INTERVAL", uintSetter(&cfg.RescanInterval)},
		{"PARALLEL", boolSetter(&cfg.Parallel)},
		{"LOG_LEVEL", stringSetter(&cfg.Log.Level)},
		{"LOG_FORMAT", stringSetter(&cfg.Log.Format)},
		{"RECORD", boolSetter(&cfg.Record.Enabled)},
		{"RECORD_PATH", stringSetter(&cfg.Record.Path)},
		{"MONITOR", boolSetter(&cfg.Monitor.Enabled)},
		{"MONITOR_PORT", intSetter(&cfg.Monitor.Port)},
		{"OPEN_BROWSER", boolSetter(&cfg.Monitor.OpenBrowser)},
	}

	for _, s := range setters {
		v, ok := os.LookupEnv(EnvPrefix + s.name)
		if !ok {
			continue
		}

		if err := s.set(v); err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, s.name, err)
		}
	}

	return nil
}

func stringSetter(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		*dst = b

		return nil
	}
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		*dst = n

		return nil
	}
}

func uintSetter(dst *uint64) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}

		*dst = n

		return nil
	}
}
