package cltv

import (
	"strings"
	"time"

	apperrors "cltvcli/internal/errors"
)

func errParams(msg string) error {
	return apperrors.NewConfigError(msg, nil)
}

// CancelMarker is the invoice id character that flags a cancellation.
const CancelMarker = "C"

// RareCountryLabel replaces country values seen fewer than
// Params.RareCountryThreshold times across the cleaned transaction set.
const RareCountryLabel = "others"

// Transaction is a single line item of a retail invoice.
//
// CustomerID holds the digit string of the source's numeric identifier;
// an empty CustomerID or Description marks a missing value. Quantity is a
// float64 because outlier capping can land between integers. LineTotal is
// zero until the Enricher derives it.
type Transaction struct {
	InvoiceID   string
	StockCode   string
	Description string
	Quantity    float64
	InvoiceDate time.Time
	UnitPrice   float64
	CustomerID  string
	Country     string
	LineTotal   float64
}

// IsCancellation reports whether the invoice id carries the cancellation
// marker.
func (t Transaction) IsCancellation() bool {
	return strings.Contains(t.InvoiceID, CancelMarker)
}

// HasIdentity reports whether the row carries both a customer id and a
// description. Rows without either are dropped before any aggregation.
func (t Transaction) HasIdentity() bool {
	return t.CustomerID != "" && t.Description != ""
}

// CustomerAggregate is one (customer_id, country) group of the cleaned
// transaction set. A customer with invoices under two country values
// yields two rows; population-wide divisors still count the customer
// once (see metrics.go).
type CustomerAggregate struct {
	CustomerID    string
	Country       string
	Monetary      float64
	LifespanWeeks float64
	RecencyWeeks  float64
	Frequency     int
}

// CustomerMetrics is a CustomerAggregate with the derived metric columns.
// AvgPurchaseFrequency and AvgCustomerLifespan are population-wide
// scalars, identical on every row of a run.
type CustomerMetrics struct {
	CustomerAggregate
	AvgPurchaseValue     float64
	AvgPurchaseFrequency float64
	CustomerValue        float64
	AvgCustomerLifespan  float64
	CLTV                 float64
}

// Params configures a pipeline run. ReferenceDate is the fixed anchor for
// recency and has no default; everything else defaults per DefaultParams.
type Params struct {
	ReferenceDate        time.Time
	RareCountryThreshold int
	FenceMultiplier      float64
	PercentileLow        float64
	PercentileHigh       float64
	MinFrequency         int
}

// DefaultParams returns the reference configuration. ReferenceDate is left
// zero and must be supplied by the caller.
func DefaultParams() Params {
	return Params{
		RareCountryThreshold: 1000,
		FenceMultiplier:      1.5,
		PercentileLow:        0.01,
		PercentileHigh:       0.99,
		MinFrequency:         1,
	}
}

// Validate checks that the parameters can drive a run.
func (p Params) Validate() error {
	switch {
	case p.ReferenceDate.IsZero():
		return errParams("reference date is required")
	case p.RareCountryThreshold < 0:
		return errParams("rare country threshold must be >= 0")
	case p.FenceMultiplier < 0:
		return errParams("fence multiplier must be >= 0")
	case p.PercentileLow < 0 || p.PercentileHigh > 1 || p.PercentileLow >= p.PercentileHigh:
		return errParams("percentiles must satisfy 0 <= low < high <= 1")
	case p.MinFrequency < 0:
		return errParams("min frequency must be >= 0")
	}
	return nil
}
