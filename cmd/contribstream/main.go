// contribstream computes running and aggregate contribution medians from
// an FEC individual-contribution feed.
//
// Usage:
//
//	contribstream [flags] <input-file> <running-output> <aggregate-output>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xtxerr/contribstream/internal/config"
	"github.com/xtxerr/contribstream/internal/export"
	"github.com/xtxerr/contribstream/internal/logging"
	"github.com/xtxerr/contribstream/internal/pipeline"
)

// Version is set at build time via ldflags
var Version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, "USAGE: %s [flags] <input-file> <running-output> <aggregate-output>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", "", "config file path")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	logJSON := flag.Bool("log-json", false, "log as JSON")
	exportDir := flag.String("export-dir", "", "write parquet export to this directory (overrides config)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 3 {
		usage()
		os.Exit(0)
	}
	inputPath := flag.Arg(0)
	runningPath := flag.Arg(1)
	aggregatePath := flag.Arg(2)

	// Load config; a missing file just means defaults.
	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// CLI overrides
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logJSON {
		cfg.Logging.JSON = true
	}
	if *exportDir != "" {
		cfg.Export.Enabled = true
		cfg.Export.Dir = *exportDir
	}

	logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.JSON)
	log := logging.Component("main")
	log.Info("contribstream starting", "version", Version, "input", inputPath)

	input, err := os.Open(inputPath)
	if err != nil {
		log.Error("open input file", "path", inputPath, "error", err)
		os.Exit(1)
	}
	defer input.Close()

	runningOut, err := os.Create(runningPath)
	if err != nil {
		log.Error("create running output", "path", runningPath, "error", err)
		os.Exit(1)
	}
	defer runningOut.Close()

	aggregateOut, err := os.Create(aggregatePath)
	if err != nil {
		log.Error("create aggregate output", "path", aggregatePath, "error", err)
		os.Exit(1)
	}
	defer aggregateOut.Close()

	p := pipeline.New(pipeline.Options{
		Layout:        cfg.Layout(),
		MaxLineBytes:  cfg.Input.MaxLineBytes,
		ProgressEvery: cfg.Pipeline.ProgressEvery,
		StatsSketch:   cfg.Stats.Enabled,
		StatsAccuracy: cfg.Stats.Accuracy,
	})

	if _, err := p.Run(input, runningOut, aggregateOut); err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	if cfg.Export.Enabled {
		opts := export.Options{
			Compression:      export.ParseCompressionType(cfg.Export.Compression.Algorithm),
			CompressionLevel: cfg.Export.Compression.Level,
		}
		if err := export.Export(cfg.Export.Dir, p.Store(), opts); err != nil {
			log.Error("export failed", "dir", cfg.Export.Dir, "error", err)
			os.Exit(1)
		}
		log.Info("export written", "dir", cfg.Export.Dir)
	}
}
