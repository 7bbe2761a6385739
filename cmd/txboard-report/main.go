package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"txboard/internal/chart"
	"txboard/internal/cli"
	"txboard/internal/config"
	"txboard/internal/core"
	"txboard/internal/report"
	"txboard/internal/store"
)

// Command line flags
var (
	nameFilter   = flag.String("name", "", "Case-insensitive customer name substring")
	amountFilter = flag.String("amount", "", "Exact transaction amount; non-numeric input is ignored")
	customerID   = flag.String("customer", "", "Customer id to summarize by date")
	customerKind = flag.String("kind", "", "Id kind for -customer: number or string (default: first match)")
	chartPath    = flag.String("chart", "", "Write the -customer bar chart to this PNG file")
	format       = flag.String("format", "text", "Table style: text, markdown")
)

func main() {
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	os.Exit(run(logger, cfg))
}

// run prints the report and returns the process exit code. Deferred cleanup
// runs before main exits.
func run(logger *slog.Logger, cfg *config.Config) int {
	outFormat, err := report.ParseFormat(*format)
	if err != nil {
		logger.Error("Invalid flag", "flag", "format", "error", err)
		return 2
	}
	if *chartPath != "" && *customerID == "" {
		logger.Error("Invalid flags", "error", "-chart requires -customer")
		return 2
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

	st := store.New()
	st.Subscribe(store.LogObserver(logger))
	if err := st.Load(ctx, res.Source); err != nil {
		return 1
	}

	view := st.CurrentFilteredTransactions()
	if *nameFilter != "" || *amountFilter != "" {
		view = st.Filter(*nameFilter, *amountFilter)
	}
	if err := report.WriteTransactions(os.Stdout, st.Rows(view), len(view), outFormat); err != nil {
		logger.Error("Failed to write report", "error", err)
		return 1
	}

	if *customerID == "" {
		return 0
	}

	c, err := store.ResolveCustomer(st, *customerID, core.IDKind(*customerKind))
	if err != nil {
		logger.Error("Customer not found", "customer_id", *customerID, "error", err)
		return 1
	}
	agg, _ := st.AggregateByCustomer(c.ID)

	fmt.Fprintln(os.Stdout)
	if err := report.WriteAggregate(os.Stdout, agg, outFormat); err != nil {
		logger.Error("Failed to write summary", "error", err)
		return 1
	}

	if *chartPath != "" {
		if err := writeChart(*chartPath, chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight), agg); err != nil {
			logger.Error("Failed to write chart", "path", *chartPath, "error", err)
			return 1
		}
		logger.Info("Chart written", "path", *chartPath)
	}
	return 0
}

func writeChart(path string, r *chart.Renderer, agg core.Aggregate) error {
	png, err := r.PNG(agg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}
