// Package errors defines the typed errors shared by the CLTV pipeline.
//
// Every failure surfaced by the pipeline carries a Kind (the error
// taxonomy) and the Stage that detected it, so a batch run always reports
// where it stopped and why. Rows dropped during cleaning are a normal
// outcome and are never represented as errors.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures.
type Kind string

const (
	// KindSchema indicates the input table is missing a required column or
	// holds a value of the wrong type. Detected before any stage runs.
	KindSchema Kind = "SCHEMA"
	// KindDataInsufficient indicates the surviving data cannot support the
	// requested computation (zero rows after cleaning, zero distinct
	// customers, a zero population divisor).
	KindDataInsufficient Kind = "DATA_INSUFFICIENT"
	// KindOutlierComputation indicates percentile bounds could not be
	// computed, e.g. a column with no values left after filtering.
	KindOutlierComputation Kind = "OUTLIER_COMPUTATION"
	// KindParsing indicates an input file could not be read or decoded.
	KindParsing Kind = "PARSING"
	// KindConfig indicates invalid or incomplete configuration.
	KindConfig Kind = "CONFIG"
)

// AppError is the error type returned across package boundaries.
type AppError struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	switch {
	case e.Stage != "" && e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Stage, e.Message, e.Cause)
	case e.Stage != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithStage returns a copy of the error tagged with the detecting stage.
// A stage already present is preserved so the innermost detector wins.
func (e *AppError) WithStage(stage string) *AppError {
	if e.Stage != "" {
		return e
	}
	c := *e
	c.Stage = stage
	return &c
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap creates an AppError of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// NewSchemaError reports a missing column or a wrongly typed value.
func NewSchemaError(message string, cause error) *AppError {
	return Wrap(KindSchema, message, cause)
}

// NewDataInsufficientError reports a stage left without enough data.
func NewDataInsufficientError(stage, message string) *AppError {
	return &AppError{Kind: KindDataInsufficient, Stage: stage, Message: message}
}

// NewOutlierComputationError reports undefined percentile bounds.
func NewOutlierComputationError(stage, message string) *AppError {
	return &AppError{Kind: KindOutlierComputation, Stage: stage, Message: message}
}

// NewParsingError reports an unreadable or undecodable input file.
func NewParsingError(message string, cause error) *AppError {
	return Wrap(KindParsing, message, cause)
}

// NewConfigError reports invalid configuration.
func NewConfigError(message string, cause error) *AppError {
	return Wrap(KindConfig, message, cause)
}

// KindOf extracts the Kind from err, or "" when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
