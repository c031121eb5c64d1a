package cltv

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	apperrors "cltvcli/internal/errors"
)

// StageAggregator names the aggregation stage in errors and logs.
const StageAggregator = "aggregator"

// Aggregate groups enriched transactions by (customer_id, country) and
// derives the RFM columns per group:
//
//   - monetary:       sum of line_total
//   - lifespan weeks: whole days between first and last invoice, / 7
//   - recency weeks:  whole days between last invoice and the reference
//     date, / 7
//   - frequency:      count of distinct invoice ids
//
// Groups with frequency <= p.MinFrequency are dropped afterwards: one-off
// buyers cannot support a lifespan/frequency based CLTV, and the filter
// must shrink the population before the metric stage computes its
// population-wide averages. Output rows are sorted by numeric customer id
// then country so equal inputs yield identical output.
func Aggregate(txs []Transaction, p Params) ([]CustomerAggregate, error) {
	type groupKey struct {
		customerID string
		country    string
	}
	type group struct {
		monetary float64
		first    time.Time
		last     time.Time
		invoices map[string]struct{}
	}

	groups := make(map[groupKey]*group)
	for _, tx := range txs {
		key := groupKey{customerID: tx.CustomerID, country: tx.Country}
		g, ok := groups[key]
		if !ok {
			g = &group{first: tx.InvoiceDate, last: tx.InvoiceDate, invoices: make(map[string]struct{})}
			groups[key] = g
		}
		g.monetary += tx.LineTotal
		if tx.InvoiceDate.Before(g.first) {
			g.first = tx.InvoiceDate
		}
		if tx.InvoiceDate.After(g.last) {
			g.last = tx.InvoiceDate
		}
		g.invoices[tx.InvoiceID] = struct{}{}
	}

	aggregates := make([]CustomerAggregate, 0, len(groups))
	for key, g := range groups {
		frequency := len(g.invoices)
		if frequency <= p.MinFrequency {
			continue
		}
		aggregates = append(aggregates, CustomerAggregate{
			CustomerID:    key.customerID,
			Country:       key.country,
			Monetary:      g.monetary,
			LifespanWeeks: float64(wholeDays(g.first, g.last)) / 7,
			RecencyWeeks:  float64(wholeDays(g.last, p.ReferenceDate)) / 7,
			Frequency:     frequency,
		})
	}

	if len(aggregates) == 0 {
		return nil, apperrors.NewDataInsufficientError(StageAggregator,
			fmt.Sprintf("no customers with frequency > %d", p.MinFrequency))
	}

	sortAggregates(aggregates)
	return aggregates, nil
}

// wholeDays counts full 24h days from one instant to a later one.
func wholeDays(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

func sortAggregates(aggregates []CustomerAggregate) {
	sort.Slice(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.CustomerID != b.CustomerID {
			return lessCustomerID(a.CustomerID, b.CustomerID)
		}
		return a.Country < b.Country
	})
}

// lessCustomerID compares ids numerically when both parse, so "999" sorts
// before "17850"; non-numeric ids fall back to a string compare.
func lessCustomerID(a, b string) bool {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		if an != bn {
			return an < bn
		}
		return a < b
	}
	return a < b
}
