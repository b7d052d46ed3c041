package analysis

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/llm"
	"resume-optimizer/internal/shared/telemetry"
)

const scenarioText = "John Doe, email: j@x.com, 5 years experience as a developer, skills: JavaScript, React"

type recordingClient struct {
	mu    sync.Mutex
	specs []llm.PromptSpec
	reply func(ctx context.Context) (llm.RawOutput, error)
}

func (c *recordingClient) Complete(ctx context.Context, spec llm.PromptSpec) (llm.RawOutput, error) {
	c.mu.Lock()
	c.specs = append(c.specs, spec)
	c.mu.Unlock()
	return c.reply(ctx)
}

func (c *recordingClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.specs)
}

func replyWith(raw string, err error) *recordingClient {
	return &recordingClient{reply: func(context.Context) (llm.RawOutput, error) {
		return llm.RawOutput(raw), err
	}}
}

type stubExtractor struct {
	text string
	got  []byte
}

func (s *stubExtractor) Extract(_ context.Context, data []byte, _, _ string) string {
	s.got = data
	return s.text
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestAnalyzeUsesModelOutput(t *testing.T) {
	logs := captureLogs(t)
	client := replyWith("```json\n"+validModelOutput+"\n```", nil)
	analyzer := NewAnalyzer(client, WithRand(NewSeededRand(1)))

	got := analyzer.Analyze(context.Background(), Document{Text: scenarioText}, "technology")

	assert.Equal(t, 78, got.Score)
	assert.Equal(t, 70, got.KeywordMatch)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, 1, got.Suggestions[0].ID)
	require.Len(t, got.EmploymentGaps, 1)
	assert.Contains(t, logs.String(), `"origin":"ai"`)

	require.Equal(t, 1, client.calls())
	spec := client.specs[0]
	assert.True(t, spec.JSON)
	assert.InDelta(t, 0.3, spec.Temperature, 0.001)
	assert.Contains(t, spec.User, scenarioText)
	assert.Equal(t, "JavaScript", spec.Keywords[0])
}

func TestAnalyzeFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{name: "client error", client: replyWith("", errors.New("connection refused"))},
		{name: "not configured", client: llm.PlaceholderClient{}},
		{name: "malformed json", client: replyWith(`{"atsScore": 90,`, nil)},
		{name: "prose", client: replyWith("I'm sorry, I can't do that.", nil)},
		{name: "array", client: replyWith(`[1, 2, 3]`, nil)},
		{name: "out of contract", client: replyWith(`{"answer": "great resume"}`, nil)},
		{name: "panicking client", client: llm.ClientFunc(func(context.Context, llm.PromptSpec) (llm.RawOutput, error) {
			panic("provider exploded")
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			analyzer := NewAnalyzer(tt.client, WithRand(NewSeededRand(1)))

			got := analyzer.Analyze(context.Background(), Document{Text: scenarioText}, "technology")

			assert.Equal(t, 85, got.Score)
			assert.Equal(t, 75, got.Formatting)
			assert.Equal(t, 70, got.Content)
			assertWellFormed(t, got)
			assert.Contains(t, logs.String(), `"origin":"heuristic"`)
		})
	}
}

func TestAnalyzeTimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// ignores its context entirely
	client := &recordingClient{reply: func(context.Context) (llm.RawOutput, error) {
		<-release
		return llm.RawOutput(validModelOutput), nil
	}}
	analyzer := NewAnalyzer(client, WithTimeout(30*time.Millisecond), WithRand(NewSeededRand(1)))

	start := time.Now()
	got := analyzer.Analyze(context.Background(), Document{Text: scenarioText}, "technology")

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 85, got.Score)
}

func TestAnalyzeCancelledContextFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &recordingClient{reply: func(ctx context.Context) (llm.RawOutput, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	got := NewAnalyzer(client, WithRand(NewSeededRand(1))).Analyze(ctx, Document{Text: scenarioText}, "technology")

	assert.Equal(t, 85, got.Score)
}

func TestAnalyzeNoRetries(t *testing.T) {
	client := replyWith("", errors.New("boom"))
	NewAnalyzer(client).Analyze(context.Background(), Document{Text: "x"}, "technology")
	assert.Equal(t, 1, client.calls())
}

func TestAnalyzeEmptyBufferIsWellFormed(t *testing.T) {
	extractor := &stubExtractor{}
	analyzer := NewAnalyzer(llm.PlaceholderClient{}, WithExtractor(extractor))

	got := analyzer.Analyze(context.Background(), Document{Data: []byte{}, MimeType: "application/pdf"}, "technology")

	assertWellFormed(t, got)
	assert.Equal(t, 50, got.Score)
	assert.Len(t, got.SkillsGap, 6)
}

func TestAnalyzeExtractsBinaryDocuments(t *testing.T) {
	extractor := &stubExtractor{text: scenarioText}
	client := replyWith("", errors.New("down"))
	analyzer := NewAnalyzer(client, WithExtractor(extractor), WithRand(NewSeededRand(1)))

	got, text := analyzer.AnalyzeWithText(context.Background(), Document{Data: []byte("%PDF-1.4"), MimeType: "application/pdf", FileName: "cv.pdf"}, "technology")

	assert.Equal(t, []byte("%PDF-1.4"), extractor.got)
	assert.Equal(t, scenarioText, text)
	assert.Equal(t, 85, got.Score)
	require.Equal(t, 1, client.calls())
	assert.True(t, strings.Contains(client.specs[0].User, scenarioText))
}

func TestAnalyzeUnknownIndustry(t *testing.T) {
	client := replyWith("", errors.New("down"))
	analyzer := NewAnalyzer(client)

	got := analyzer.Analyze(context.Background(), Document{Text: scenarioText}, "astronautics")

	assertWellFormed(t, got)
	assert.Empty(t, got.SkillsGap)
	require.Equal(t, 1, client.calls())
	assert.Empty(t, client.specs[0].Keywords)
	assert.Contains(t, client.specs[0].User, "Relevant Keywords: \n")
}

func TestAnalyzeUnknownIndustryModelWithoutSkills(t *testing.T) {
	got := NewAnalyzer(replyWith(`{"atsScore": 66}`, nil)).Analyze(context.Background(), Document{Text: "text"}, "astronautics")

	assert.Equal(t, 66, got.Score)
	assert.NotNil(t, got.SkillsGap)
	assert.Empty(t, got.SkillsGap)
}

func TestAnalyzeConcurrentInvocations(t *testing.T) {
	analyzer := NewAnalyzer(replyWith(validModelOutput, nil))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			industry := "technology"
			if i%2 == 0 {
				industry = "finance"
			}
			got := analyzer.Analyze(context.Background(), Document{Text: scenarioText}, industry)
			if got.Score != 78 {
				t.Errorf("unexpected score %d", got.Score)
			}
		}(i)
	}
	wg.Wait()
}

func TestOptimize(t *testing.T) {
	suggestions := []Suggestion{{ID: 1, Type: SuggestionQuantify, Title: "Quantify Achievements", Description: "Add numbers."}}

	t.Run("rewrites", func(t *testing.T) {
		client := replyWith("  Improved resume  ", nil)
		got := NewOptimizer(client, time.Second).Optimize(context.Background(), "original", "technology", suggestions)
		assert.Equal(t, "Improved resume", got)
		require.Equal(t, 1, client.calls())
		assert.False(t, client.specs[0].JSON)
		assert.Contains(t, client.specs[0].User, "- Quantify Achievements: Add numbers.")
	})

	t.Run("failure keeps original", func(t *testing.T) {
		captureLogs(t)
		got := NewOptimizer(replyWith("", errors.New("down")), time.Second).Optimize(context.Background(), "original", "technology", suggestions)
		assert.Equal(t, "original", got)
	})

	t.Run("empty output keeps original", func(t *testing.T) {
		got := NewOptimizer(replyWith("   ", nil), time.Second).Optimize(context.Background(), "original", "technology", nil)
		assert.Equal(t, "original", got)
	})
}
