// Package dataprocessing loads raw retail transaction tables into memory.
//
// Source files are Excel workbooks (one sheet per reporting year) or CSV
// exports with the same column set. The loader finds the header row,
// maps columns by name rather than position, and validates the schema
// before the pipeline runs: a missing required column or an unparseable
// typed value is a SCHEMA failure. Blank customer_id or description
// cells are not — they load as empty values for the cleaner to drop.
package dataprocessing
