// Package config loads CLI settings from papersearch.yaml, PAPERSEARCH_*
// environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/papersearch/papersearch/papersearch/contact"
	"github.com/papersearch/papersearch/papersearch/storage"
	"github.com/papersearch/papersearch/papersearch/storage/postgres"
	"github.com/papersearch/papersearch/papersearch/storage/sqlite"
	"github.com/papersearch/papersearch/papersearch/term"
)

// Backend names accepted by the backend key.
const (
	BackendSQLite   = "sqlite"
	BackendSQLite3  = "sqlite3"
	BackendPostgres = "postgres"
)

// Config is the resolved CLI configuration.
type Config struct {
	Backend        string       `mapstructure:"backend"`
	SQLitePath     string       `mapstructure:"sqlite_path"`
	PostgresDSN    string       `mapstructure:"postgres_dsn"`
	PostgresSchema string       `mapstructure:"postgres_schema"`
	DefaultLimit   string       `mapstructure:"default_limit"`
	LogLevel       string       `mapstructure:"log_level"`
	Fixture        string       `mapstructure:"fixture"`
	Conference     contact.Conf `mapstructure:"conference"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("sqlite_path", "papersearch.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("postgres_schema", "papersearch")
	v.SetDefault("default_limit", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("fixture", "papersearch-data.yaml")
	v.SetDefault("conference.pc_view_active", false)
	v.SetDefault("conference.tracks", false)
	v.SetDefault("conference.blind", false)
	v.SetDefault("conference.pc_see_all_decisions", false)
	v.SetDefault("conference.authors_see_decisions", false)
}

// Load reads cfgFile, or papersearch.yaml from the working directory or
// ~/.config/papersearch/ when cfgFile is empty. A missing default file is
// not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("papersearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "papersearch"))
		}
	}

	v.SetEnvPrefix("PAPERSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendSQLite3:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres_dsn is required for the postgres backend")
		}
		if !postgres.ValidSchema(c.PostgresSchema) {
			return fmt.Errorf("invalid postgres_schema %q", c.PostgresSchema)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DefaultLimit != "" {
		if _, ok := term.CanonicalLimit(c.DefaultLimit); !ok {
			return fmt.Errorf("unknown default_limit %q", c.DefaultLimit)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Adapter returns the storage adapter for the configured backend.
func (c *Config) Adapter() storage.Adapter {
	switch c.Backend {
	case BackendPostgres:
		return postgres.New(c.PostgresDSN, c.PostgresSchema)
	case BackendSQLite3:
		return sqlite.NewWithDriver(c.SQLitePath, sqlite.DriverMattn)
	default:
		return sqlite.New(c.SQLitePath)
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}
