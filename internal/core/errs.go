// Package core holds the error taxonomy shared by the detection, analysis
// and reporting pipeline.
package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups of unknown families, alerts or reports. It is
// always surfaced to the caller and never retried.
var ErrNotFound = errors.New("not found")

// Skippable conditions: expected outcomes of a scheduled run that must not
// count toward a failure tally.
var (
	ErrAlreadyReported = errors.New("report already exists for period")
	ErrAlreadyAnalyzed = errors.New("analysis already ran for period")
	ErrNothingToReport = errors.New("no insights available for period")
	ErrNoMessages      = errors.New("no messages to analyze")
)

// ProviderError wraps a failure of the AI-completion transport.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SchemaError wraps an AI response that could not be parsed against the
// expected JSON shape. Raw carries the offending response for logs.
type SchemaError struct {
	Err error
	Raw string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ai response schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSkippable reports whether err is an expected, non-failure outcome of a
// batch unit.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrAlreadyReported) ||
		errors.Is(err, ErrAlreadyAnalyzed) ||
		errors.Is(err, ErrNothingToReport) ||
		errors.Is(err, ErrNoMessages)
}
