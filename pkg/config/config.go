// Package config loads orgnet settings from an optional YAML file with
// environment-variable overrides for the data source.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
)

// Environment variables recognized at load time. Values override the file.
const (
	EnvConfig = "ORGNET_CONFIG" // config file path
	EnvDB     = "ORGNET_DB"     // sqlite database path
	EnvURL    = "ORGNET_URL"    // HTTP entity store base URL
	EnvAPIKey = "ORGNET_API_KEY"
)

// Source selects where the entity snapshot comes from. When both a database
// path and a URL are set, the database wins.
type Source struct {
	// DBPath is the path to a SQLite database.
	DBPath string `yaml:"db_path"`
	// URL is the base URL of an HTTP entity store.
	URL string `yaml:"url"`
	// APIKey is sent as a bearer token to the HTTP store.
	APIKey string `yaml:"api_key"`
}

// Thresholds groups the tunable analysis policies.
type Thresholds struct {
	Influence analysis.InfluenceWeights `yaml:"influence"`
	Health    analysis.HealthConfig     `yaml:"health"`
	Silo      analysis.SiloConfig       `yaml:"silo"`
	Broker    analysis.BrokerConfig     `yaml:"broker"`
}

// Config is the full tool configuration.
type Config struct {
	Source     Source     `yaml:"source"`
	Thresholds Thresholds `yaml:"thresholds"`
	// IncludeInteractionWeights enables the interaction-count edge channel
	// during graph builds.
	IncludeInteractionWeights bool `yaml:"include_interaction_weights"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			Influence: analysis.DefaultInfluenceWeights,
			Health:    analysis.DefaultHealthConfig,
			Silo:      analysis.DefaultSiloConfig,
			Broker:    analysis.DefaultBrokerConfig,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (or $ORGNET_CONFIG when path is empty), then environment overrides.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Source.DBPath = v
	}
	if v := os.Getenv(EnvURL); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Source.APIKey = v
	}
}
