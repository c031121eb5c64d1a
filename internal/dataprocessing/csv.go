package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"cltvcli/internal/cltv"
	apperrors "cltvcli/internal/errors"
)

// ParseCSV reads a transaction table from a CSV export. The first record
// must be a header row carrying the same column names as the workbook
// sheets; a UTF-8 BOM is tolerated.
func ParseCSV(path string) ([]cltv.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open csv %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read csv header of %s", path), err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols, missing := mapColumns(header)
	if missing != nil {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("csv %s is missing required columns: %s",
				path, strings.Join(missing, ", ")), nil)
	}

	var txs []cltv.Transaction
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("read csv row %d of %s", rowNum+1, path), err)
		}
		rowNum++

		if isBlankRow(row) {
			continue
		}
		tx, err := parseRow(path, rowNum, row, cols)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
