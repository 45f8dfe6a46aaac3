package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-bookopts/pkg/book"
)

// EnvPrefix prefixes every environment override, e.g. BOOKOPTS_BOOK_PATH.
const EnvPrefix = "BOOKOPTS"

// Config holds all configuration for the bookopts CLI.
type Config struct {
	Book        BookConfig        `mapstructure:"book"`
	Definitions DefinitionsConfig `mapstructure:"definitions"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// BookConfig selects the store option values are persisted in.
type BookConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DefinitionsConfig points at a definition file or a directory of them.
type DefinitionsConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and BOOKOPTS_* environment
// variables. An empty file means bookopts.yaml in the working directory or
// ~/.bookopts; a missing default file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("book.driver", string(book.DriverYAML))
	v.SetDefault("book.path", "book.yaml")
	v.SetDefault("definitions.path", "options")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("bookopts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(homeDir(), ".bookopts"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	switch book.Driver(strings.ToLower(c.Book.Driver)) {
	case book.DriverMemory:
	case book.DriverYAML, book.DriverSQLite:
		if strings.TrimSpace(c.Book.Path) == "" {
			return fmt.Errorf("book.path must not be empty for driver %q", c.Book.Driver)
		}
	default:
		return fmt.Errorf("book.driver %q is not one of memory, yaml, sqlite", c.Book.Driver)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
