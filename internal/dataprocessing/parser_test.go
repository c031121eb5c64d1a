package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "cltvcli/internal/errors"
)

var transactionHeader = []interface{}{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// writeWorkbook builds an xlsx file with one sheet per entry.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestParseWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Year 2010-2011": {
			transactionHeader,
			{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "6",
				"2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
			{"C536379", "D", "Discount", "-1",
				"2010-12-01 09:41:00", "27.50", "14527", "United Kingdom"},
			{"536366", "71053", "WHITE METAL LANTERN", "6",
				"2010-12-01 08:28:00", "3.39", "17850.0", "United Kingdom"},
			{"536367", "84406B", "", "8",
				"2010-12-01 08:34:00", "2.75", "", "France"},
		},
	})

	txs, err := ParseWorkbook(path)
	require.NoError(t, err)
	require.Len(t, txs, 4)

	first := txs[0]
	assert.Equal(t, "536365", first.InvoiceID)
	assert.Equal(t, "85123A", first.StockCode)
	assert.Equal(t, 6.0, first.Quantity)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), first.InvoiceDate)
	assert.Equal(t, 2.55, first.UnitPrice)
	assert.Equal(t, "17850", first.CustomerID)
	assert.Equal(t, "United Kingdom", first.Country)

	assert.Equal(t, "C536379", txs[1].InvoiceID, "cancellations load; the cleaner drops them")
	assert.Equal(t, -1.0, txs[1].Quantity, "negative quantities load as-is")
	assert.Equal(t, "17850", txs[2].CustomerID, "float-formatted ids canonicalize")
	assert.Empty(t, txs[3].CustomerID, "blank customer id is not a schema error")
	assert.Empty(t, txs[3].Description)
}

func TestParseWorkbookMultipleYearSheets(t *testing.T) {
	row := func(invoice string) [][]interface{} {
		return [][]interface{}{
			transactionHeader,
			{invoice, "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "6",
				"2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
		}
	}
	path := writeWorkbook(t, map[string][][]interface{}{
		"Year 2009-2010": row("489434"),
		"Year 2010-2011": row("536365"),
	})

	txs, err := ParseWorkbook(path)
	require.NoError(t, err)
	assert.Len(t, txs, 2, "all year sheets concatenate")
}

func TestParseWorkbookSchemaErrors(t *testing.T) {
	t.Run("missing required column", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]interface{}{
			"Year 2010-2011": {
				{"InvoiceNo", "StockCode", "Description", "Quantity",
					"InvoiceDate", "UnitPrice", "CustomerID"}, // no Country
				{"536365", "85123A", "DESC", "6", "2010-12-01 08:26:00", "2.55", "17850"},
			},
		})

		_, err := ParseWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
		assert.Contains(t, err.Error(), "country")
	})

	t.Run("no transaction sheet at all", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]interface{}{
			"Notes": {{"just", "some", "text"}},
		})

		_, err := ParseWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
	})

	t.Run("wrong value type", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]interface{}{
			"Year 2010-2011": {
				transactionHeader,
				{"536365", "85123A", "DESC", "six",
					"2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
			},
		})

		_, err := ParseWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("non-numeric customer id", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]interface{}{
			"Year 2010-2011": {
				transactionHeader,
				{"536365", "85123A", "DESC", "6",
					"2010-12-01 08:26:00", "2.55", "ANON", "United Kingdom"},
			},
		})

		_, err := ParseWorkbook(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
		assert.Contains(t, err.Error(), "customer_id")
	})
}

func TestParseWorkbookMissingFile(t *testing.T) {
	_, err := ParseWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindParsing))
}

func TestParseWorkbookSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Year 2010-2011": {
			transactionHeader,
			{"536365", "85123A", "DESC", "6",
				"2010-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
			{"", "", "", "", "", "", "", ""},
			{"536366", "71053", "DESC", "2",
				"2010-12-01 08:28:00", "3.39", "17850", "United Kingdom"},
		},
	})

	txs, err := ParseWorkbook(path)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestParseCSV(t *testing.T) {
	content := "\uFEFFInvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n" +
		"536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2010-12-01 08:26:00,2.55,17850,United Kingdom\n" +
		"536366,71053,WHITE METAL LANTERN,6,2010-12-01 08:28:00,3.39,,United Kingdom\n"

	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	txs, err := ParseCSV(path)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "536365", txs[0].InvoiceID)
	assert.Equal(t, "17850", txs[0].CustomerID)
	assert.Empty(t, txs[1].CustomerID)
}

func TestParseCSVSchemaError(t *testing.T) {
	content := "InvoiceNo,StockCode,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n"
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ParseCSV(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
	assert.Contains(t, err.Error(), "description")
}
