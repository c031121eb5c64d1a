// Package cltv computes Customer Lifetime Value from raw retail
// transaction records.
//
// The package is a single deterministic batch pipeline over an in-memory
// transaction table:
//
//  1. Clean      - drops rows with missing customer/description, caps
//     unit_price and quantity to Tukey fences, drops
//     cancellation invoices and non-positive prices.
//  2. Enrich     - derives per-line revenue and folds rare countries
//     into the "others" label using snapshot counts.
//  3. Aggregate  - groups by (customer_id, country) and derives recency,
//     frequency, monetary and lifespan, keeping repeat
//     customers only.
//  4. Metrics    - derives avg purchase value, avg purchase frequency,
//     customer value, avg customer lifespan and CLTV.
//
// Every stage is a pure function from one immutable slice to a new one;
// no stage mutates its input. Given identical input and Params, two runs
// produce identical output, including row order.
//
// File organization:
//   - types.go:      Transaction, CustomerAggregate, CustomerMetrics, Params
//   - outliers.go:   percentile and Tukey fence computation
//   - cleaner.go:    row filtering and outlier capping
//   - enricher.go:   line totals and rare-country folding
//   - aggregator.go: per-customer grouping and the repeat-customer filter
//   - metrics.go:    population scalars and the CLTV chain
//   - pipeline.go:   stage orchestration and logging
//
// Failures carry the detecting stage name via the errors package; dropped
// rows are a normal outcome and never an error.
package cltv
