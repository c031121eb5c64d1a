package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"cltvcli/internal/cltv"
	apperrors "cltvcli/internal/errors"
)

// headerScanRows bounds how deep into a sheet the header search looks.
const headerScanRows = 10

// ParseWorkbook reads every transaction sheet of an Excel workbook. The
// source files carry one sheet per reporting year; all sheets with the
// required columns are concatenated in sheet order. A sheet that looks
// like a transaction table but lacks a required column aborts with a
// SCHEMA error; a workbook with no transaction sheet at all does too.
func ParseWorkbook(path string) ([]cltv.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()

	var txs []cltv.Transaction
	parsedSheets := 0

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %s", sheet), err)
		}

		headerIdx, cols, err := findHeader(sheet, rows)
		if err != nil {
			return nil, err
		}
		if headerIdx < 0 {
			slog.Debug("skipping sheet without transaction columns",
				slog.String("sheet", sheet))
			continue
		}

		sheetTxs, err := parseRows(sheet, rows[headerIdx+1:], headerIdx+2, cols)
		if err != nil {
			return nil, err
		}

		slog.Info("parsed transaction sheet",
			slog.String("sheet", sheet),
			slog.Int("rows", len(sheetTxs)))
		txs = append(txs, sheetTxs...)
		parsedSheets++
	}

	if parsedSheets == 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("workbook %s has no sheet with the transaction columns", path), nil)
	}
	return txs, nil
}

// findHeader locates the header row within the first headerScanRows rows.
// Returns -1 when the sheet carries no recognizable header. A partial
// header (some transaction columns, not all) is a schema error: the sheet
// was meant to be a transaction table and a column is missing.
func findHeader(sheet string, rows [][]string) (int, columnMap, error) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	for i := 0; i < limit; i++ {
		cols, missing := mapColumns(rows[i])
		if missing == nil {
			return i, cols, nil
		}
		if len(missing) <= 3 && len(rows[i]) >= 4 {
			return -1, columnMap{}, apperrors.NewSchemaError(
				fmt.Sprintf("sheet %s is missing required columns: %s",
					sheet, strings.Join(missing, ", ")), nil)
		}
	}
	return -1, columnMap{}, nil
}

// parseRows converts data rows after the header. firstRowNum is the
// 1-based position of the first data row in the sheet or file.
func parseRows(origin string, rows [][]string, firstRowNum int, cols columnMap) ([]cltv.Transaction, error) {
	txs := make([]cltv.Transaction, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		tx, err := parseRow(origin, firstRowNum+i, row, cols)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
