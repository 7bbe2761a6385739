package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"txboard/internal/backend"
	"txboard/internal/cli"
	"txboard/internal/config"
	"txboard/internal/core"
)

var inputPath = flag.String("in", "-", "JSON dataset to import; - reads stdin")

func main() {
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	os.Exit(run(logger, cfg))
}

func run(logger *slog.Logger, cfg *config.Config) int {
	if !backend.BackendType(cfg.DataBackend).CanImport() {
		logger.Error("Backend cannot store datasets", "backend", cfg.DataBackend, "supported", "sqlite, postgres")
		return 2
	}

	ds, err := readDataset(*inputPath)
	if err != nil {
		logger.Error("Failed to read dataset", "path", *inputPath, "error", err)
		return 1
	}

	ctx, cancel := cli.LoadContext(context.Background(), cfg.LoadTimeout)
	defer cancel()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize dataset backend", "error", err, "backend", cfg.DataBackend)
		return 1
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup error", "error", err)
		}
	}()

	if err := res.Importer.Import(ctx, ds); err != nil {
		logger.Error("Import failed", "error", err, "backend", cfg.DataBackend)
		return 1
	}

	stats := ds.Stats(*inputPath)
	logger.Info("Dataset imported",
		"backend", cfg.DataBackend,
		"customers", stats.Customers,
		"transactions", stats.Transactions,
		"orphans", stats.Orphans)
	return 0
}

func readDataset(path string) (core.Dataset, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return core.Dataset{}, err
		}
		defer f.Close()
		r = f
	}
	ds, err := core.DecodeDataset(r)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ds, nil
}
