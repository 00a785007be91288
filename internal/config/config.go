// Package config loads the application configuration with layered
// precedence: built-in defaults, then a YAML file, then LLDECK_* environment
// variables, then command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the validated application configuration.
type Config struct {
	Addr     string `koanf:"addr" validate:"required,hostname_port"`
	DB       string `koanf:"db" validate:"required"`
	ReposDir string `koanf:"repos_dir" validate:"required"`
	// DefaultAim seeds new profiles' daily learning target.
	DefaultAim int    `koanf:"default_aim" validate:"gte=0"`
	LogLevel   string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// Flags declares the command-line flags mirrored into the configuration.
// The returned set is not yet parsed.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("lldeck", pflag.ContinueOnError)
	f.String("config", "", "Path to a YAML config file")
	f.String("addr", "localhost:8080", "HTTP listen address")
	f.String("db", "lldeck.db", "Path to the SQLite database file")
	f.String("repos-dir", "repos", "Directory for local mirrors of git sources")
	f.Int("default-aim", 20, "Default daily aim for new profiles")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	return f
}

// Load builds the configuration from the parsed flag set, layering the YAML
// file named by --config (when given) and the LLDECK_* environment beneath
// the flags, and validates the result.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// LLDECK_LOG_LEVEL -> log_level
	err := k.Load(env.Provider("LLDECK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LLDECK_"))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flags win; unchanged flags only fill keys nothing else set. Dashes in
	// flag names map to underscores in config keys.
	err = k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
