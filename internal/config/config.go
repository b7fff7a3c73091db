// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// With no config file at all, every field falls back to its env-default
// and can still be overridden from the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage    Storage `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

// Storage selects the persistence backend and where it keeps its data.
type Storage struct {
	// Driver is "json" (one file per collection) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"json"`

	ProductsPath string `yaml:"products_path" env:"PRODUCTS_PATH" env-default:"./productos.json"`
	StudentsPath string `yaml:"students_path" env:"STUDENTS_PATH" env-default:"./usuarios.json"`
	SQLitePath   string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./records.db"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on.
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":3000"`
}

// Load reads the config file at path, or only the environment when path is
// empty, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	switch cfg.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return nil, fmt.Errorf("config: unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config, loads
// it, and exits the process on failure. Callers do not need to check an
// error: if this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}
