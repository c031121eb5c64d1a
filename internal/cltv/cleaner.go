package cltv

import (
	"errors"
	"fmt"

	apperrors "cltvcli/internal/errors"
)

// StageCleaner names the cleaning stage in errors and logs.
const StageCleaner = "cleaner"

// Clean filters the raw transaction set down to the rows the pipeline can
// aggregate. The order is significant for reproducibility:
//
//	(a) drop rows missing customer_id or description
//	(b) cap unit_price and quantity to Tukey fences computed from the
//	    null-filtered data, each column with its own thresholds
//	(c) drop cancellation invoices (invoice_id containing "C")
//	(d) drop rows with non-positive unit_price
//
// The input slice is never mutated; capped rows are copies.
func Clean(txs []Transaction, p Params) ([]Transaction, error) {
	identified := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.HasIdentity() {
			identified = append(identified, tx)
		}
	}
	if len(identified) == 0 {
		return nil, apperrors.NewDataInsufficientError(StageCleaner,
			fmt.Sprintf("no rows with customer_id and description among %d", len(txs)))
	}

	prices := make([]float64, len(identified))
	quantities := make([]float64, len(identified))
	for i, tx := range identified {
		prices[i] = tx.UnitPrice
		quantities[i] = tx.Quantity
	}

	priceLow, priceHigh, err := FenceBounds(prices, p.PercentileLow, p.PercentileHigh, p.FenceMultiplier)
	if err != nil {
		return nil, stageErr(err, StageCleaner)
	}
	qtyLow, qtyHigh, err := FenceBounds(quantities, p.PercentileLow, p.PercentileHigh, p.FenceMultiplier)
	if err != nil {
		return nil, stageErr(err, StageCleaner)
	}

	prices = ClampColumn(prices, priceLow, priceHigh)
	quantities = ClampColumn(quantities, qtyLow, qtyHigh)

	cleaned := make([]Transaction, 0, len(identified))
	for i, tx := range identified {
		tx.UnitPrice = prices[i]
		tx.Quantity = quantities[i]

		if tx.IsCancellation() {
			continue
		}
		if tx.UnitPrice <= 0 {
			continue
		}
		cleaned = append(cleaned, tx)
	}

	if len(cleaned) == 0 {
		return nil, apperrors.NewDataInsufficientError(StageCleaner,
			"no rows survived cancellation and price filters")
	}
	return cleaned, nil
}

// stageErr tags an AppError with the detecting stage, leaving other errors
// untouched.
func stageErr(err error, stage string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithStage(stage)
	}
	return err
}
