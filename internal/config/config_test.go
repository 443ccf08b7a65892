package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	if cfg.Input.Delimiter != "|" {
		t.Errorf("expected delimiter |, got %q", cfg.Input.Delimiter)
	}
	if cfg.Input.Fields.Zone != 10 || cfg.Input.Fields.Date != 13 {
		t.Errorf("unexpected field indexes: %+v", cfg.Input.Fields)
	}
	if cfg.Export.Enabled {
		t.Error("export should be disabled by default")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
input:
  delimiter: ";"
logging:
  level: debug
export:
  enabled: true
  dir: /tmp/exports
  compression:
    algorithm: snappy
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Input.Delimiter != ";" {
		t.Errorf("expected delimiter ;, got %q", cfg.Input.Delimiter)
	}
	// Unset values keep their defaults.
	if cfg.Input.Fields.Amount != 14 {
		t.Errorf("expected default amount index 14, got %d", cfg.Input.Fields.Amount)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
	if !cfg.Export.Enabled || cfg.Export.Compression.Algorithm != "snappy" {
		t.Errorf("unexpected export config: %+v", cfg.Export)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"empty delimiter",
			func(c *Config) { c.Input.Delimiter = "" },
			"delimiter",
		},
		{
			"negative index",
			func(c *Config) { c.Input.Fields.Date = -1 },
			"date",
		},
		{
			"colliding indexes",
			func(c *Config) { c.Input.Fields.Zone = 14 },
			"collides",
		},
		{
			"export without dir",
			func(c *Config) { c.Export.Enabled = true },
			"export.dir",
		},
		{
			"bad compression",
			func(c *Config) { c.Export.Compression.Algorithm = "brotli" },
			"compression",
		},
		{
			"bad accuracy",
			func(c *Config) { c.Stats.Accuracy = 2 },
			"accuracy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	layout := DefaultConfig().Layout()
	if layout.Delimiter != "|" || layout.OtherID != 15 {
		t.Errorf("unexpected layout: %+v", layout)
	}
}
