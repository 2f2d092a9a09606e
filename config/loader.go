package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// Default values applied after load. The fetch timeout matches the HTTP
// client default; the watch interval matches the MTA's publish cadence.
const (
	DefaultTimeoutMS  = 30000
	DefaultIntervalMS = 30000
)

// LoadAppConfig loads and validates the application configuration from
// config.yml, searched in the working directory and next to the binary.
// A missing file is not an error: the defaults stand on their own.
func LoadAppConfig() error {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadAppConfigFrom(p)
		}
	}
	Config = AppConfig{}
	applyDefaults(&Config)
	return nil
}

// LoadAppConfigFrom loads and validates the application configuration from
// an explicit path. Unlike LoadAppConfig, a missing file is an error.
func LoadAppConfigFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	applyDefaults(&cfg)
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	Config = cfg
	return nil
}

func searchPaths() []string {
	paths := []string{"config.yml"}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "config.yml"))
	}
	return paths
}

func applyDefaults(cfg *AppConfig) {
	if cfg.API.TimeoutMS == 0 {
		cfg.API.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Watch.IntervalMS == 0 {
		cfg.Watch.IntervalMS = DefaultIntervalMS
	}
}
