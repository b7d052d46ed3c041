package llm

import (
	"context"
	"errors"
)

// Client abstracts the language-model providers used for resume analysis and rewriting.
// Any returned error is treated by callers as a failed call; no retries happen here.
type Client interface {
	Complete(ctx context.Context, spec PromptSpec) (RawOutput, error)
}

// RawOutput is the unparsed text a provider returned for a prompt.
type RawOutput []byte

// PromptSpec carries everything a provider needs to issue one completion.
type PromptSpec struct {
	System      string
	User        string
	Temperature float32
	// JSON asks the provider for a strict JSON object response.
	JSON     bool
	Industry string
	Keywords []string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider is configured. Every call fails, which
// routes analyses to the heuristic scorer.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, PromptSpec) (RawOutput, error) {
	return nil, ErrNotConfigured
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, spec PromptSpec) (RawOutput, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, spec PromptSpec) (RawOutput, error) {
	return f(ctx, spec)
}
