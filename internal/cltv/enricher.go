package cltv

// StageEnricher names the enrichment stage in errors and logs.
const StageEnricher = "enricher"

// Enrich derives line_total for every cleaned row and folds rare
// countries into RareCountryLabel.
//
// Folding is two-pass: the occurrence counts are snapshotted over the
// whole cleaned set first, then a pure relabeling pass applies them. A
// country needs strictly fewer than p.RareCountryThreshold occurrences to
// fold; exactly at the threshold it keeps its label. The counts never see
// already-folded values, so a run can never fold based on its own output.
func Enrich(txs []Transaction, p Params) []Transaction {
	counts := make(map[string]int, 64)
	for _, tx := range txs {
		counts[tx.Country]++
	}

	enriched := make([]Transaction, len(txs))
	for i, tx := range txs {
		tx.LineTotal = tx.UnitPrice * tx.Quantity
		if counts[tx.Country] < p.RareCountryThreshold {
			tx.Country = RareCountryLabel
		}
		enriched[i] = tx
	}
	return enriched
}
