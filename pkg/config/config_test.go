package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Thresholds.Influence.Betweenness != 0.4 {
		t.Errorf("default betweenness weight = %v, want 0.4", cfg.Thresholds.Influence.Betweenness)
	}
	if cfg.Thresholds.Silo.IsolatedRatio != 0.5 || cfg.Thresholds.Silo.ConnectedRatio != 2.0 {
		t.Errorf("default silo thresholds = %+v", cfg.Thresholds.Silo)
	}
	if cfg.Source.DBPath != "" || cfg.Source.URL != "" {
		t.Errorf("default source should be empty: %+v", cfg.Source)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgnet.yaml")
	body := `
source:
  db_path: /tmp/team.db
thresholds:
  silo:
    isolated_ratio: 0.25
include_interaction_weights: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.DBPath != "/tmp/team.db" {
		t.Errorf("db path = %q", cfg.Source.DBPath)
	}
	if cfg.Thresholds.Silo.IsolatedRatio != 0.25 {
		t.Errorf("isolated ratio = %v, want file override 0.25", cfg.Thresholds.Silo.IsolatedRatio)
	}
	// Untouched values keep their defaults.
	if cfg.Thresholds.Silo.ConnectedRatio != 2.0 {
		t.Errorf("connected ratio = %v, want default 2.0", cfg.Thresholds.Silo.ConnectedRatio)
	}
	if !cfg.IncludeInteractionWeights {
		t.Error("interaction weights flag not set")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("explicit missing file should error")
	}
}

func TestLoadNoFileIsFine(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Thresholds.Health.IdealDensity != 0.1 {
		t.Errorf("defaults not applied: %+v", cfg.Thresholds.Health)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("source: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should error")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgnet.yaml")
	if err := os.WriteFile(path, []byte("source:\n  db_path: /from/file.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDB, "/from/env.db")
	t.Setenv(EnvURL, "http://graph.internal")
	t.Setenv(EnvAPIKey, "sekrit")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.DBPath != "/from/env.db" {
		t.Errorf("db path = %q, env should beat the file", cfg.Source.DBPath)
	}
	if cfg.Source.URL != "http://graph.internal" || cfg.Source.APIKey != "sekrit" {
		t.Errorf("source = %+v", cfg.Source)
	}
}

func TestEnvConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgnet.yaml")
	if err := os.WriteFile(path, []byte("source:\n  url: http://example.test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.URL != "http://example.test" {
		t.Errorf("url = %q, want value from $%s file", cfg.Source.URL, EnvConfig)
	}
}
