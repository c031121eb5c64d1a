package cltv

import (
	"log/slog"
)

// Pipeline runs the full transform from raw transactions to per-customer
// CLTV metrics.
type Pipeline struct {
	params Params
	logger *slog.Logger
}

// NewPipeline validates the parameters and builds a pipeline. A nil logger
// falls back to slog.Default().
func NewPipeline(params Params, logger *slog.Logger) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{params: params, logger: logger}, nil
}

// Run executes Clean, Enrich, Aggregate and ComputeMetrics in order over a
// copy-on-write chain: the input slice is never mutated and every stage
// produces a fresh slice. A failed precondition aborts the run with the
// stage that detected it; there is nothing to retry.
func (p *Pipeline) Run(txs []Transaction) ([]CustomerMetrics, error) {
	p.logger.Info("pipeline started",
		slog.Int("raw_rows", len(txs)),
		slog.Time("reference_date", p.params.ReferenceDate))

	cleaned, err := Clean(txs, p.params)
	if err != nil {
		return nil, err
	}
	p.logger.Info("cleaning finished",
		slog.Int("cleaned_rows", len(cleaned)),
		slog.Int("dropped_rows", len(txs)-len(cleaned)))

	enriched := Enrich(cleaned, p.params)

	aggregates, err := Aggregate(enriched, p.params)
	if err != nil {
		return nil, err
	}
	p.logger.Info("aggregation finished",
		slog.Int("customer_rows", len(aggregates)))

	metrics, err := ComputeMetrics(aggregates)
	if err != nil {
		return nil, err
	}
	p.logger.Info("metric derivation finished",
		slog.Int("report_rows", len(metrics)),
		slog.Float64("avg_purchase_frequency", metrics[0].AvgPurchaseFrequency),
		slog.Float64("avg_customer_lifespan", metrics[0].AvgCustomerLifespan))

	return metrics, nil
}
