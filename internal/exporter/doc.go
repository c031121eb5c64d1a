// Package exporter writes the per-customer CLTV report as CSV.
//
// Floats are rendered in their shortest exact form and rows arrive
// pre-sorted from the aggregator, so two runs over the same input produce
// byte-identical files. Reports carry a UTF-8 BOM so Excel opens them
// without an import dialog.
package exporter
