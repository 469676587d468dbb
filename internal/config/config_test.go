package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := Validate(cfg); err == nil {
		t.Error("expected error for port > 65535")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidate_MissingBaseURL(t *testing.T) {
	cfg := Defaults()
	cfg.Spark.BaseURL = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for empty base_url")
	}
}

func TestValidate_InvalidTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Spark.TimeoutSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for timeout 0")
	}
}

func TestTokenIsPlaceholder(t *testing.T) {
	cfg := Defaults()
	if !cfg.TokenIsPlaceholder() {
		t.Error("default token should be the placeholder")
	}

	cfg.Spark.Token = "real-token"
	if cfg.TokenIsPlaceholder() {
		t.Error("provisioned token should not be the placeholder")
	}

	cfg.Spark.Token = ""
	if !cfg.TokenIsPlaceholder() {
		t.Error("empty token counts as unprovisioned")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg := Defaults()
	cfg.Spark.Token = "abc123"
	cfg.Server.Port = 8080
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Spark.Token != "abc123" {
		t.Errorf("expected token abc123, got %q", loaded.Spark.Token)
	}
	if loaded.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", loaded.Server.Port)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	partial := "spark:\n  token: xyz\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spark.Token != "xyz" {
		t.Errorf("expected token xyz, got %q", cfg.Spark.Token)
	}
	if cfg.Spark.BaseURL != "https://api.ciscospark.com" {
		t.Errorf("base_url default lost: %q", cfg.Spark.BaseURL)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port default lost: %d", cfg.Server.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	os.WriteFile(path, []byte("spark: ["), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "debug"
	if cfg.SlogLevel().String() != "DEBUG" {
		t.Errorf("expected DEBUG, got %s", cfg.SlogLevel())
	}
}
