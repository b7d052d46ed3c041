package analysis

import (
	"context"
	"fmt"
	"time"

	"resume-optimizer/internal/catalog"
	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/shared/metrics"
	"resume-optimizer/internal/shared/telemetry"
)

const DefaultTimeout = 60 * time.Second

const (
	originAI        = "ai"
	originHeuristic = "heuristic"
)

// Extractor converts an uploaded binary into text. It must not fail; undecodable input
// yields "".
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string, fileName string) string
}

// Document is the input to one analysis. When Data is set it is extracted; otherwise Text
// is used as-is.
type Document struct {
	Data     []byte
	MimeType string
	FileName string
	Text     string
}

// Analyzer runs the analysis pipeline: extraction, prompt, model call, normalization, and
// the heuristic fallback on any model failure.
type Analyzer struct {
	extractor  Extractor
	catalog    *catalog.Catalog
	client     llm.Client
	heuristic  *Heuristic
	normalizer *Normalizer
	timeout    time.Duration
}

// Option customizes an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	extractor Extractor
	catalog   *catalog.Catalog
	rand      RandSource
	timeout   time.Duration
}

// WithExtractor sets the document extractor. Without one, binary documents yield "".
func WithExtractor(e Extractor) Option {
	return func(c *analyzerConfig) { c.extractor = e }
}

// WithCatalog overrides the keyword catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *analyzerConfig) { c.catalog = cat }
}

// WithRand makes heuristic results reproducible.
func WithRand(r RandSource) Option {
	return func(c *analyzerConfig) { c.rand = r }
}

// WithTimeout bounds the model call.
func WithTimeout(d time.Duration) Option {
	return func(c *analyzerConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

type nopExtractor struct{}

func (nopExtractor) Extract(context.Context, []byte, string, string) string { return "" }

// NewAnalyzer wires a pipeline around client. A nil client behaves like an unconfigured
// provider and always falls back to the heuristic.
func NewAnalyzer(client llm.Client, opts ...Option) *Analyzer {
	cfg := analyzerConfig{
		extractor: nopExtractor{},
		catalog:   catalog.Default(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	heuristic := NewHeuristic(cfg.catalog, cfg.rand)
	return &Analyzer{
		extractor:  cfg.extractor,
		catalog:    cfg.catalog,
		client:     client,
		heuristic:  heuristic,
		normalizer: NewNormalizer(heuristic),
		timeout:    cfg.timeout,
	}
}

// Analyze returns a well-formed Result for doc. It never fails and never panics.
func (a *Analyzer) Analyze(ctx context.Context, doc Document, industry string) Result {
	result, _ := a.AnalyzeWithText(ctx, doc, industry)
	return result
}

// AnalyzeWithText is Analyze that also returns the text the result was computed from.
func (a *Analyzer) AnalyzeWithText(ctx context.Context, doc Document, industry string) (Result, string) {
	start := time.Now()
	metrics.IncAnalysisStarted()

	text := doc.Text
	if len(doc.Data) > 0 {
		text = a.extract(ctx, doc)
	}

	origin := originAI
	result, err := a.viaModel(ctx, text, industry)
	if err != nil {
		origin = originHeuristic
		result = a.heuristic.Analyze(text, industry)
		metrics.IncAnalysisFallback()
	} else {
		metrics.IncAnalysisAI()
	}

	elapsed := time.Since(start)
	metrics.ObserveAnalysisDuration(elapsed)
	fields := map[string]any{
		"origin":      origin,
		"industry":    industry,
		"score":       result.Score,
		"text_chars":  len(text),
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["reason"] = err.Error()
	}
	telemetry.Info("analysis.complete", fields)
	return result, text
}

func (a *Analyzer) extract(ctx context.Context, doc Document) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncExtractionFailed()
			telemetry.Error("extract.panic", map[string]any{"filename": doc.FileName, "panic": fmt.Sprint(rec)})
			text = ""
		}
	}()
	return a.extractor.Extract(ctx, doc.Data, doc.MimeType, doc.FileName)
}

func (a *Analyzer) viaModel(ctx context.Context, text, industry string) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("analysis panic: %v", rec)
		}
	}()

	spec := llm.BuildAnalysisPrompt(text, industry, a.catalog.Keywords(industry))
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := complete(callCtx, a.client, spec)
	if err != nil {
		return Result{}, err
	}

	cleaned := []byte(llm.CleanJSONBlock(string(raw)))
	if err := CheckEnvelope(cleaned); err != nil {
		return Result{}, err
	}
	if anomalies := ValidateContract(cleaned); len(anomalies) > 0 {
		telemetry.Warn("analysis.normalize.anomaly", map[string]any{
			"industry": industry,
			"count":    len(anomalies),
			"first":    anomalies[0].String(),
		})
	}
	return a.normalizer.Normalize(cleaned, industry, text), nil
}

// complete calls client but stops waiting once ctx is done, even if the client ignores
// cancellation. Panics inside the client surface as errors.
func complete(ctx context.Context, client llm.Client, spec llm.PromptSpec) (llm.RawOutput, error) {
	type reply struct {
		raw llm.RawOutput
		err error
	}
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- reply{err: fmt.Errorf("llm client panic: %v", rec)}
			}
		}()
		raw, err := client.Complete(ctx, spec)
		done <- reply{raw: raw, err: err}
	}()

	select {
	case r := <-done:
		return r.raw, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("llm call: %w", ctx.Err())
	}
}
