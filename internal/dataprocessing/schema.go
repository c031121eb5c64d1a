package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cltvcli/internal/cltv"
	apperrors "cltvcli/internal/errors"
)

// columnMap holds the resolved index of every required column.
type columnMap struct {
	invoice     int
	stockCode   int
	description int
	quantity    int
	invoiceDate int
	unitPrice   int
	customerID  int
	country     int
}

// header aliases, normalized to lowercase without spaces. The retail
// exports in the wild disagree on exact header wording.
var columnAliases = map[string][]string{
	"invoice_id":        {"invoiceno", "invoice", "invoiceid"},
	"stock_code":        {"stockcode"},
	"description":       {"description"},
	"quantity":          {"quantity"},
	"invoice_timestamp": {"invoicedate", "invoicetimestamp"},
	"unit_price":        {"unitprice", "price"},
	"customer_id":       {"customerid"},
	"country":           {"country"},
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"01-02-06 15:04",
}

func normalizeHeader(cell string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cell)), " ", "")
}

// mapColumns resolves a header row into a columnMap. It returns the names
// of the required columns the row does not carry; a row matching nothing
// is simply not a header row.
func mapColumns(row []string) (columnMap, []string) {
	found := make(map[string]int, len(columnAliases))
	for idx, cell := range row {
		norm := normalizeHeader(cell)
		for name, aliases := range columnAliases {
			for _, alias := range aliases {
				if norm == alias {
					if _, ok := found[name]; !ok {
						found[name] = idx
					}
				}
			}
		}
	}

	var missing []string
	for name := range columnAliases {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnMap{}, missing
	}

	return columnMap{
		invoice:     found["invoice_id"],
		stockCode:   found["stock_code"],
		description: found["description"],
		quantity:    found["quantity"],
		invoiceDate: found["invoice_timestamp"],
		unitPrice:   found["unit_price"],
		customerID:  found["customer_id"],
		country:     found["country"],
	}, nil
}

// parseRow converts one data row into a Transaction. origin names the
// sheet or file and rowNum is 1-based, both for error reporting only.
func parseRow(origin string, rowNum int, row []string, cols columnMap) (cltv.Transaction, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	quantity, err := parseNumber(cell(cols.quantity))
	if err != nil {
		return cltv.Transaction{}, schemaCellError(origin, rowNum, "quantity", err)
	}
	unitPrice, err := parseNumber(cell(cols.unitPrice))
	if err != nil {
		return cltv.Transaction{}, schemaCellError(origin, rowNum, "unit_price", err)
	}
	invoiceDate, err := parseTimestamp(cell(cols.invoiceDate))
	if err != nil {
		return cltv.Transaction{}, schemaCellError(origin, rowNum, "invoice_timestamp", err)
	}
	customerID, err := canonicalCustomerID(cell(cols.customerID))
	if err != nil {
		return cltv.Transaction{}, schemaCellError(origin, rowNum, "customer_id", err)
	}

	return cltv.Transaction{
		InvoiceID:   cell(cols.invoice),
		StockCode:   cell(cols.stockCode),
		Description: cell(cols.description),
		Quantity:    quantity,
		InvoiceDate: invoiceDate,
		UnitPrice:   unitPrice,
		CustomerID:  customerID,
		Country:     cell(cols.country),
	}, nil
}

func schemaCellError(origin string, rowNum int, column string, cause error) error {
	return apperrors.NewSchemaError(
		fmt.Sprintf("%s row %d: column %s", origin, rowNum, column), cause)
}

func parseNumber(cell string) (float64, error) {
	if cell == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	// spreadsheet exports carry thousands separators
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	return v, nil
}

func parseTimestamp(cell string) (time.Time, error) {
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty timestamp cell")
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", cell)
}

// canonicalCustomerID keeps the digit string of the numeric identifier.
// Spreadsheet exports round-trip the id through a float column, so
// "17850.0" and "17850" are the same customer. Empty means missing and
// is passed through for the cleaner to drop.
func canonicalCustomerID(cell string) (string, error) {
	if cell == "" {
		return "", nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return "", fmt.Errorf("not a numeric identifier: %q", cell)
	}
	if v != math.Trunc(v) || v < 0 {
		return "", fmt.Errorf("not a whole identifier: %q", cell)
	}
	return strconv.FormatInt(int64(v), 10), nil
}

// isBlankRow reports whether every cell of the row is empty.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
