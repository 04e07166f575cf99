// Package llm provides the AI-completion port: submit a text prompt,
// receive free-form text back. Providers are interchangeable behind the
// Client interface.
package llm

import "context"

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PolicyMode selects how a caller handles a completion failure.
type PolicyMode int

const (
	// FailFast propagates the provider error to the caller.
	FailFast PolicyMode = iota
	// Degrade substitutes a fixed fallback value for the response.
	Degrade
)

// CallPolicy makes the asymmetric failure handling of the pipeline an
// explicit, per-call configuration: insight extraction fails fast, alert
// corroboration and tip generation degrade to fallback values.
type CallPolicy struct {
	Mode     PolicyMode
	Fallback string
}

// Resolve applies the policy to a completion outcome. Under Degrade the
// returned error is always nil.
func (p CallPolicy) Resolve(text string, err error) (string, error) {
	if err == nil {
		return text, nil
	}
	if p.Mode == Degrade {
		return p.Fallback, nil
	}
	return "", err
}
