package cltv

import (
	"fmt"

	apperrors "cltvcli/internal/errors"
)

// StageMetrics names the metric derivation stage in errors and logs.
const StageMetrics = "metrics"

// ComputeMetrics derives the CLTV metric chain over the filtered customer
// aggregates, in dependency order:
//
//	avg_purchase_value     = monetary / frequency            (per row)
//	avg_purchase_frequency = sum(frequency) / distinct customers
//	customer_value         = avg_purchase_value * avg_purchase_frequency
//	avg_customer_lifespan  = sum(lifespan) / distinct customers
//	cltv                   = customer_value * avg_customer_lifespan
//
// The population divisors count distinct customer_id values, not rows: a
// customer split across two country rows still counts once. An empty
// population or a zero-frequency row (possible only if the repeat-customer
// filter was bypassed) is a DATA_INSUFFICIENT failure, never NaN output.
func ComputeMetrics(aggregates []CustomerAggregate) ([]CustomerMetrics, error) {
	if len(aggregates) == 0 {
		return nil, apperrors.NewDataInsufficientError(StageMetrics, "empty customer population")
	}

	distinct := make(map[string]struct{}, len(aggregates))
	var totalFrequency, totalLifespan float64
	for _, a := range aggregates {
		if a.Frequency == 0 {
			return nil, apperrors.NewDataInsufficientError(StageMetrics,
				fmt.Sprintf("customer %s has zero frequency", a.CustomerID))
		}
		distinct[a.CustomerID] = struct{}{}
		totalFrequency += float64(a.Frequency)
		totalLifespan += a.LifespanWeeks
	}

	customers := float64(len(distinct))
	if customers == 0 {
		return nil, apperrors.NewDataInsufficientError(StageMetrics, "zero distinct customers")
	}

	avgPurchaseFrequency := totalFrequency / customers
	avgCustomerLifespan := totalLifespan / customers

	metrics := make([]CustomerMetrics, len(aggregates))
	for i, a := range aggregates {
		avgPurchaseValue := a.Monetary / float64(a.Frequency)
		customerValue := avgPurchaseValue * avgPurchaseFrequency
		metrics[i] = CustomerMetrics{
			CustomerAggregate:    a,
			AvgPurchaseValue:     avgPurchaseValue,
			AvgPurchaseFrequency: avgPurchaseFrequency,
			CustomerValue:        customerValue,
			AvgCustomerLifespan:  avgCustomerLifespan,
			CLTV:                 customerValue * avgCustomerLifespan,
		}
	}
	return metrics, nil
}
