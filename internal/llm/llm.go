// Package llm defines the text-generation provider used by the recommendation
// reasoner. Concrete providers live in subpackages.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a provider that lacks credentials or an endpoint.
var ErrNotConfigured = errors.New("llm provider not configured")

// Request represents one generation request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}
