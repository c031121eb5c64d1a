// Command cltv-report computes Customer Lifetime Value from a raw retail
// transaction file and writes the per-customer report as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cltvcli/internal/cltv"
	"cltvcli/internal/config"
	"cltvcli/internal/dataprocessing"
	apperrors "cltvcli/internal/errors"
	"cltvcli/internal/exporter"
	"cltvcli/internal/validation"
)

func main() {
	inputPath := flag.String("in", "", "transaction file to process (.xlsx or .csv)")
	outputDir := flag.String("out", "", "output directory for the report (defaults to configured reports dir)")
	configPath := flag.String("config", "", "path to the YAML config file")
	referenceDate := flag.String("reference-date", "", "recency anchor date (overrides config, e.g. 2011-12-12)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: cltv-report -in transactions.xlsx [-out dir] [-config cltv.yaml] [-reference-date 2011-12-12]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath, *referenceDate)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)
	logger := slog.Default().With(slog.String("run_id", uuid.NewString()))

	params, err := cfg.Params()
	if err != nil {
		logger.Error("Invalid pipeline parameters", "error", err)
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(*inputPath); err != nil {
		logger.Error("Input validation failed", "error", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outputDir); err != nil {
		logger.Error("Output validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Loading transactions", "path", *inputPath)
	transactions, err := loadTransactions(*inputPath)
	if err != nil {
		exitWithPipelineError(logger, err)
	}
	logger.Info("Loaded transactions", "rows", len(transactions))

	pipeline, err := cltv.NewPipeline(params, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", "error", err)
		os.Exit(1)
	}

	metrics, err := pipeline.Run(transactions)
	if err != nil {
		exitWithPipelineError(logger, err)
	}

	writer := exporter.NewCSVWriter(*outputDir)
	reportPath, err := writer.WriteCustomerReport("cltv_report.csv", metrics)
	if err != nil {
		logger.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	logger.Info("CLTV report generated successfully",
		"report", reportPath,
		"customers", len(metrics))

	printSummaryStats(metrics)
}

// loadConfig loads the layered configuration and applies the CLI
// reference-date override before validation re-runs.
func loadConfig(path, referenceDate string) (config.Config, error) {
	if referenceDate != "" {
		// highest-priority override, delivered through the same channel
		// the config layer already merges
		os.Setenv("CLTV_REFERENCE_DATE", referenceDate)
	}
	return config.Load(path)
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadTransactions picks the loader from the file extension.
func loadTransactions(path string) ([]cltv.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataprocessing.ParseWorkbook(path)
	case ".csv":
		return dataprocessing.ParseCSV(path)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported input format %q (want .xlsx or .csv)", filepath.Ext(path)), nil)
	}
}

// exitWithPipelineError logs kind and stage so a failed batch run always
// says where it stopped. Pipeline failures are deterministic; rerunning
// the same input fails identically, so there is nothing to retry.
func exitWithPipelineError(logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		logger.Error("Pipeline failed",
			"kind", string(appErr.Kind),
			"stage", appErr.Stage,
			"error", err)
	} else {
		logger.Error("Pipeline failed", "error", err)
	}
	os.Exit(1)
}

func printSummaryStats(metrics []cltv.CustomerMetrics) {
	if len(metrics) == 0 {
		return
	}

	top := make([]cltv.CustomerMetrics, 0, 5)
	for _, m := range metrics {
		if len(top) < 5 {
			top = append(top, m)
			continue
		}
		minIdx := 0
		for i, tm := range top {
			if tm.CLTV < top[minIdx].CLTV {
				minIdx = i
			}
		}
		if m.CLTV > top[minIdx].CLTV {
			top[minIdx] = m
		}
	}

	fmt.Println("\n=== TOP 5 CUSTOMERS BY CLTV ===")
	fmt.Println("Customer | Country        | CLTV       | Monetary   | Frequency")
	fmt.Println("---------|----------------|------------|------------|----------")
	for _, m := range top {
		fmt.Printf("%-8s | %-14s | %10.2f | %10.2f | %9d\n",
			m.CustomerID, m.Country, m.CLTV, m.Monetary, m.Frequency)
	}
}
