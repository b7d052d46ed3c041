package analysis

import (
	"context"
	"strings"
	"time"

	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/shared/telemetry"
)

// Optimizer rewrites resume content along its suggestions.
type Optimizer struct {
	client  llm.Client
	timeout time.Duration
}

// NewOptimizer returns an Optimizer. A non-positive timeout uses DefaultTimeout.
func NewOptimizer(client llm.Client, timeout time.Duration) *Optimizer {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Optimizer{client: client, timeout: timeout}
}

// Optimize returns the rewritten content, or content unchanged when the model call fails
// or returns nothing.
func (o *Optimizer) Optimize(ctx context.Context, content, industry string, suggestions []Suggestion) string {
	lines := make([]llm.SuggestionLine, 0, len(suggestions))
	for _, s := range suggestions {
		lines = append(lines, llm.SuggestionLine{Title: s.Title, Description: s.Description})
	}
	spec := llm.BuildOptimizePrompt(content, industry, lines)

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := complete(callCtx, o.client, spec)
	if err != nil {
		telemetry.Warn("optimize.failed", map[string]any{"industry": industry, "error": err})
		return content
	}
	rewritten := strings.TrimSpace(string(raw))
	if rewritten == "" {
		return content
	}
	return rewritten
}
