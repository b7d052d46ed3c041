package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"resume-optimizer/internal/analysis"
	"resume-optimizer/internal/events"
	"resume-optimizer/internal/shared/storage/object"
)

const sampleText = "John Doe, email: j@x.com, 5 years experience as a developer, skills: JavaScript, React"

var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

type fakeAnalyzer struct {
	mu       sync.Mutex
	docs     []analysis.Document
	industry []string
	score    int
	text     string
}

func (f *fakeAnalyzer) AnalyzeWithText(_ context.Context, doc analysis.Document, industry string) (analysis.Result, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
	f.industry = append(f.industry, industry)
	text := doc.Text
	if text == "" {
		text = f.text
	}
	result := analysis.Result{
		Score:       f.score,
		Strengths:   []string{"Clear structure"},
		Suggestions: []analysis.Suggestion{{Type: analysis.SuggestionQuantify, Title: "Quantify", Description: "Add numbers", Priority: analysis.PriorityHigh}},
		SkillsGap:   []analysis.SkillGap{{Skill: "Go", CurrentLevel: 40, TargetLevel: 85, Importance: 90}},
	}
	return result.Sanitize(), text
}

func (f *fakeAnalyzer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

type fakeStore struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (s *fakeStore) Put(_ context.Context, userID, fileName, contentType string, r io.Reader) (object.Object, error) {
	if s.err != nil {
		return object.Object{}, s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return object.Object{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	key := userID + "/" + fileName
	s.puts[key] = data
	return object.Object{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *fakeStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type fakeOptimizer struct {
	got []analysis.Suggestion
	out string
}

func (o *fakeOptimizer) Optimize(_ context.Context, content, _ string, suggestions []analysis.Suggestion) string {
	o.got = suggestions
	if o.out == "" {
		return content
	}
	return o.out
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
