// Package config loads runtime settings from, in increasing precedence,
// built-in defaults, an optional YAML file, STUDYPLAN_ environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the runtime settings of the studyplan server.
type Config struct {
	DBPath       string `koanf:"db"`
	ListenAddr   string `koanf:"listen"`
	BackupDir    string `koanf:"backup-dir"`   // empty disables git backups
	CalendarHost string `koanf:"calendar-host"` // host part of calendar event UIDs
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DBPath:       "studyplan.db",
		ListenAddr:   ":8080",
		CalendarHost: "studyplan.local",
	}
}

// Load layers the configuration sources. configPath may be empty; flags
// may be nil (e.g. in tests).
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("STUDYPLAN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "STUDYPLAN_")), "_", "-")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Layers may set keys to blank; fall back to defaults for the
	// settings the server cannot run without.
	if cfg.DBPath == "" {
		cfg.DBPath = Defaults().DBPath
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Defaults().ListenAddr
	}
	if cfg.CalendarHost == "" {
		cfg.CalendarHost = Defaults().CalendarHost
	}
	return cfg, nil
}
