package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cltvcli/internal/cltv"
)

func sampleMetrics() []cltv.CustomerMetrics {
	return []cltv.CustomerMetrics{
		{
			CustomerAggregate: cltv.CustomerAggregate{
				CustomerID:    "100",
				Country:       "others",
				Monetary:      300,
				LifespanWeeks: 2,
				RecencyWeeks:  1,
				Frequency:     3,
			},
			AvgPurchaseValue:     100,
			AvgPurchaseFrequency: 3,
			CustomerValue:        300,
			AvgCustomerLifespan:  2,
			CLTV:                 600,
		},
		{
			CustomerAggregate: cltv.CustomerAggregate{
				CustomerID:    "17850",
				Country:       "United Kingdom",
				Monetary:      123.45,
				LifespanWeeks: 3.5,
				RecencyWeeks:  0.5714285714285714,
				Frequency:     2,
			},
			AvgPurchaseValue:     61.725,
			AvgPurchaseFrequency: 3,
			CustomerValue:        185.175,
			AvgCustomerLifespan:  2,
			CLTV:                 370.35,
		},
	}
}

func TestWriteCustomerReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	path, err := writer.WriteCustomerReport("cltv_report.csv", sampleMetrics())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cltv_report.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "\xEF\xBB\xBF" +
		"customer_id,country,monetary,customer_lifespan_weeks,recency_weeks,frequency," +
		"avg_purchase_value,avg_purchase_frequency,customer_value,avg_customer_lifespan,cltv\n" +
		"100,others,300,2,1,3,100,3,300,2,600\n" +
		"17850,United Kingdom,123.45,3.5,0.5714285714285714,2,61.725,3,185.175,2,370.35\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteCustomerReportIsByteIdentical(t *testing.T) {
	writer := NewCSVWriter(t.TempDir())

	firstPath, err := writer.WriteCustomerReport("first.csv", sampleMetrics())
	require.NoError(t, err)
	secondPath, err := writer.WriteCustomerReport("second.csv", sampleMetrics())
	require.NoError(t, err)

	first, err := os.ReadFile(firstPath)
	require.NoError(t, err)
	second, err := os.ReadFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	path, err := writer.WriteCSV(filepath.Join("reports", "nested", "out.csv"), WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestWriteCustomerReportEmptyPopulation(t *testing.T) {
	writer := NewCSVWriter(t.TempDir())

	path, err := writer.WriteCustomerReport("empty.csv", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "customer_id,country", "header still written")
}
