package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cltvcli/internal/cltv"
)

// ReportColumns is the output schema, in order.
var ReportColumns = []string{
	"customer_id",
	"country",
	"monetary",
	"customer_lifespan_weeks",
	"recency_weeks",
	"frequency",
	"avg_purchase_value",
	"avg_purchase_frequency",
	"customer_value",
	"avg_customer_lifespan",
	"cltv",
}

// CSVWriter writes report files beneath a base directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a CSV file beneath the base directory and returns its
// full path. The directory is created if needed; an existing file is
// truncated.
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) (string, error) {
	fullPath := filepath.Join(w.dir, name)

	slog.Info("writing csv file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return fullPath, writer.Error()
}

// WriteCustomerReport writes the final per-customer table.
func (w *CSVWriter) WriteCustomerReport(name string, metrics []cltv.CustomerMetrics) (string, error) {
	records := make([][]string, len(metrics))
	for i, m := range metrics {
		records[i] = []string{
			m.CustomerID,
			m.Country,
			formatFloat(m.Monetary),
			formatFloat(m.LifespanWeeks),
			formatFloat(m.RecencyWeeks),
			strconv.Itoa(m.Frequency),
			formatFloat(m.AvgPurchaseValue),
			formatFloat(m.AvgPurchaseFrequency),
			formatFloat(m.CustomerValue),
			formatFloat(m.AvgCustomerLifespan),
			formatFloat(m.CLTV),
		}
	}

	return w.WriteCSV(name, WriteOptions{
		Headers:   ReportColumns,
		Records:   records,
		BOMPrefix: true,
	})
}

// formatFloat renders the shortest decimal string that round-trips the
// value, keeping repeat exports byte-identical.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
