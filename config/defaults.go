// Package config provides configuration defaults and utilities
// for the contribstream application.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml.
package config

// =============================================================================
// Input Defaults
// =============================================================================

const (
	// DefaultDelimiter separates fields in a raw contribution line.
	// Override via config: input.delimiter
	DefaultDelimiter = "|"

	// DefaultRecipientIndex is the positional index of the recipient id.
	// Override via config: input.fields.recipient
	DefaultRecipientIndex = 0

	// DefaultZoneIndex is the positional index of the origin zone.
	// Override via config: input.fields.zone
	DefaultZoneIndex = 10

	// DefaultDateIndex is the positional index of the transaction date.
	// Override via config: input.fields.date
	DefaultDateIndex = 13

	// DefaultAmountIndex is the positional index of the transaction amount.
	// Override via config: input.fields.amount
	DefaultAmountIndex = 14

	// DefaultOtherIDIndex is the positional index of the other-id marker.
	// A populated other-id marks a different transaction type and the
	// record is discarded whole.
	// Override via config: input.fields.other_id
	DefaultOtherIDIndex = 15

	// DefaultMaxLineBytes bounds a single raw line. FEC bulk lines are a
	// few hundred bytes; 1 MiB leaves generous slack for dirty feeds.
	// Override via config: input.max_line_bytes
	DefaultMaxLineBytes = 1024 * 1024
)

// =============================================================================
// Pipeline Defaults
// =============================================================================

const (
	// DefaultProgressEvery is how many records pass between progress log
	// lines. Zero disables progress logging.
	// Override via config: pipeline.progress_every
	DefaultProgressEvery = 1_000_000
)

// =============================================================================
// Stats Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy for the
	// run-summary amount distribution (0.01 = 1% error).
	// Override via config: stats.accuracy
	DefaultSketchAccuracy = 0.01
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultExportCompression is the parquet compression algorithm:
	// snappy, zstd, lz4, gzip, none.
	// Override via config: export.compression.algorithm
	DefaultExportCompression = "zstd"

	// DefaultExportCompressionLevel is the compression level for
	// algorithms that support it (zstd: 1-22).
	// Override via config: export.compression.level
	DefaultExportCompressionLevel = 3
)

// =============================================================================
// Query Defaults
// =============================================================================

const (
	// DefaultQueryMemoryLimit caps DuckDB memory for export queries.
	// Override via config: query.memory_limit
	DefaultQueryMemoryLimit = "1GB"
)
