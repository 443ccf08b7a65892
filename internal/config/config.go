// Package config loads and validates the runtime configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/contribstream/config"
	"github.com/xtxerr/contribstream/internal/feed"
)

// Config represents the complete pipeline configuration.
type Config struct {
	// Input describes the raw feed layout.
	Input InputConfig `yaml:"input"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`

	// Pipeline configures stream processing behavior.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Stats configures the run-summary statistics.
	Stats StatsConfig `yaml:"stats"`

	// Export configures the optional parquet archival export.
	Export ExportConfig `yaml:"export"`

	// Query configures the export query service.
	Query QueryConfig `yaml:"query"`
}

// InputConfig describes the raw feed layout.
type InputConfig struct {
	// Delimiter separates fields in a raw line.
	Delimiter string `yaml:"delimiter"`

	// Fields holds the positional field indexes.
	Fields FieldsConfig `yaml:"fields"`

	// MaxLineBytes bounds a single raw line.
	MaxLineBytes int `yaml:"max_line_bytes"`
}

// FieldsConfig holds the positional field indexes of the feed layout.
type FieldsConfig struct {
	Recipient int `yaml:"recipient"`
	Zone      int `yaml:"zone"`
	Date      int `yaml:"date"`
	Amount    int `yaml:"amount"`
	OtherID   int `yaml:"other_id"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches output from text to JSON.
	JSON bool `yaml:"json"`
}

// PipelineConfig configures stream processing behavior.
type PipelineConfig struct {
	// ProgressEvery is how many records pass between progress log lines.
	// Zero disables progress logging.
	ProgressEvery int `yaml:"progress_every"`
}

// StatsConfig configures the run-summary statistics.
type StatsConfig struct {
	// Enabled enables the amount-distribution sketch.
	Enabled bool `yaml:"enabled"`

	// Accuracy is the sketch relative accuracy (0.01 = 1% error).
	Accuracy float64 `yaml:"accuracy"`
}

// ExportConfig configures the optional parquet archival export.
type ExportConfig struct {
	// Enabled enables the export.
	Enabled bool `yaml:"enabled"`

	// Dir is the export directory.
	Dir string `yaml:"dir"`

	// Compression configures parquet compression.
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig configures parquet compression.
type CompressionConfig struct {
	// Algorithm is one of: snappy, zstd, lz4, gzip, none.
	Algorithm string `yaml:"algorithm"`

	// Level is the compression level (for zstd: 1-22).
	Level int `yaml:"level"`
}

// QueryConfig configures the export query service.
type QueryConfig struct {
	// MemoryLimit caps DuckDB memory usage, e.g. "1GB".
	MemoryLimit string `yaml:"memory_limit"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: defaults.DefaultDelimiter,
			Fields: FieldsConfig{
				Recipient: defaults.DefaultRecipientIndex,
				Zone:      defaults.DefaultZoneIndex,
				Date:      defaults.DefaultDateIndex,
				Amount:    defaults.DefaultAmountIndex,
				OtherID:   defaults.DefaultOtherIDIndex,
			},
			MaxLineBytes: defaults.DefaultMaxLineBytes,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Pipeline: PipelineConfig{
			ProgressEvery: defaults.DefaultProgressEvery,
		},
		Stats: StatsConfig{
			Enabled:  true,
			Accuracy: defaults.DefaultSketchAccuracy,
		},
		Export: ExportConfig{
			Enabled: false,
			Compression: CompressionConfig{
				Algorithm: defaults.DefaultExportCompression,
				Level:     defaults.DefaultExportCompressionLevel,
			},
		},
		Query: QueryConfig{
			MemoryLimit: defaults.DefaultQueryMemoryLimit,
		},
	}
}

// Load reads a configuration file, applying defaults for missing values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Input.Delimiter == "" {
		return fmt.Errorf("input.delimiter must not be empty")
	}

	indexes := []struct {
		name string
		idx  int
	}{
		{"recipient", c.Input.Fields.Recipient},
		{"zone", c.Input.Fields.Zone},
		{"date", c.Input.Fields.Date},
		{"amount", c.Input.Fields.Amount},
		{"other_id", c.Input.Fields.OtherID},
	}
	seen := make(map[int]string, len(indexes))
	for _, f := range indexes {
		if f.idx < 0 {
			return fmt.Errorf("input.fields.%s must not be negative", f.name)
		}
		if prev, dup := seen[f.idx]; dup {
			return fmt.Errorf("input.fields.%s collides with input.fields.%s at index %d", f.name, prev, f.idx)
		}
		seen[f.idx] = f.name
	}

	if c.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input.max_line_bytes must be positive")
	}

	if c.Pipeline.ProgressEvery < 0 {
		return fmt.Errorf("pipeline.progress_every must not be negative")
	}

	if c.Stats.Enabled && (c.Stats.Accuracy <= 0 || c.Stats.Accuracy >= 1) {
		return fmt.Errorf("stats.accuracy must be in (0, 1)")
	}

	if c.Export.Enabled && c.Export.Dir == "" {
		return fmt.Errorf("export.dir required when export is enabled")
	}

	switch c.Export.Compression.Algorithm {
	case "snappy", "zstd", "lz4", "gzip", "none", "":
	default:
		return fmt.Errorf("unknown export.compression.algorithm %q", c.Export.Compression.Algorithm)
	}

	return nil
}

// Layout converts the input section to a feed.Layout.
func (c *Config) Layout() feed.Layout {
	return feed.Layout{
		Delimiter: c.Input.Delimiter,
		Recipient: c.Input.Fields.Recipient,
		Zone:      c.Input.Fields.Zone,
		Date:      c.Input.Fields.Date,
		Amount:    c.Input.Fields.Amount,
		OtherID:   c.Input.Fields.OtherID,
	}
}
