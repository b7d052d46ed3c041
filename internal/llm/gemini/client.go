package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/shared/telemetry"
)

// Client implements llm.Client on the Gemini API.
type Client struct {
	model  string
	client *genai.Client
}

// Option customizes the underlying genai client config.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// NewClient constructs a Gemini client for model.
func NewClient(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{model: model, client: client}, nil
}

// Complete issues one GenerateContent call and returns the response text.
func (c *Client) Complete(ctx context.Context, spec llm.PromptSpec) (llm.RawOutput, error) {
	if strings.TrimSpace(spec.User) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(spec.Temperature),
	}
	if strings.TrimSpace(spec.System) != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(spec.System, genai.RoleUser)
	}
	if spec.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(spec.User), genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini response missing candidates")
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini response empty content")
	}

	fields := map[string]any{"model": c.model, "industry": spec.Industry}
	if usage := result.UsageMetadata; usage != nil {
		fields["prompt_tokens"] = usage.PromptTokenCount
		fields["completion_tokens"] = usage.CandidatesTokenCount
		fields["total_tokens"] = usage.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return llm.RawOutput(text), nil
}

var _ llm.Client = (*Client)(nil)
