package resumes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resume-optimizer/internal/events"
	"resume-optimizer/internal/extract"
	"resume-optimizer/internal/stats"
)

type serviceFixture struct {
	svc       *Service
	repo      *MemoryRepo
	store     *fakeStore
	analyzer  *fakeAnalyzer
	stats     *stats.MemoryStore
	publisher *recordingPublisher
	optimizer *fakeOptimizer
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      NewMemoryRepo(),
		store:     &fakeStore{},
		analyzer:  &fakeAnalyzer{score: 85, text: sampleText},
		stats:     stats.NewMemoryStore(),
		publisher: &recordingPublisher{},
		optimizer: &fakeOptimizer{},
	}
	f.svc = &Service{
		Store:     f.store,
		Repo:      f.repo,
		Analyzer:  f.analyzer,
		Optimizer: f.optimizer,
		Stats:     f.stats,
		Events:    f.publisher,
		Now:       func() time.Time { return fixedNow },
	}
	return f
}

func TestUploadPersistsAnalysisAndStats(t *testing.T) {
	f := newServiceFixture()
	data := []byte("%PDF-1.4 fake")

	res, err := f.svc.Upload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "cv.pdf",
		MimeType: "application/pdf",
		Industry: " technology ",
		Data:     data,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if res.ID == "" || res.Industry != "technology" || res.MimeType != extract.MimePDF {
		t.Fatalf("unexpected resume %+v", res)
	}
	if res.OriginalContent != sampleText {
		t.Fatalf("expected extracted text to be stored, got %q", res.OriginalContent)
	}
	if res.StorageKey != "user-1/cv.pdf" || string(f.store.puts["user-1/cv.pdf"]) != string(data) {
		t.Fatalf("expected original to be stored, key=%q", res.StorageKey)
	}
	if !res.CreatedAt.Equal(fixedNow) || res.ContentHash == "" {
		t.Fatalf("unexpected metadata %+v", res)
	}

	stored, err := f.repo.GetByID(context.Background(), "user-1", res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Analysis.Score != 85 || len(stored.Analysis.Suggestions) != 1 {
		t.Fatalf("unexpected stored analysis %+v", stored.Analysis)
	}

	st, _ := f.stats.Get(context.Background(), "user-1")
	if st.ResumesAnalyzed != 1 || st.AvgScore != 85 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.TypeResumeAnalyzed || f.publisher.events[0].Score != 85 {
		t.Fatalf("unexpected events %+v", f.publisher.events)
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name string
		in   UploadInput
		want error
	}{
		{name: "missing industry", in: UploadInput{FileName: "cv.pdf", Data: []byte("%PDF-1.4")}, want: ErrInvalidInput},
		{name: "empty file", in: UploadInput{FileName: "cv.pdf", Industry: "technology"}, want: ErrInvalidInput},
		{name: "image", in: UploadInput{FileName: "cv.png", MimeType: "image/png", Industry: "technology", Data: []byte("\x89PNG")}, want: ErrUnsupportedType},
		{name: "plain text", in: UploadInput{FileName: "cv.txt", MimeType: "text/plain", Industry: "technology", Data: []byte("hello")}, want: ErrUnsupportedType},
		{name: "too large", in: UploadInput{FileName: "cv.pdf", Industry: "technology", Data: make([]byte, 11)}, want: ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			f.svc.MaxUploadBytes = 10
			tt.in.UserID = "user-1"

			_, err := f.svc.Upload(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if f.analyzer.calls() != 0 {
				t.Fatal("analysis should not run for rejected uploads")
			}
			if st, _ := f.stats.Get(context.Background(), "user-1"); st.ResumesAnalyzed != 0 {
				t.Fatalf("stats should be untouched, got %+v", st)
			}
		})
	}
}

func TestUploadStoreFailure(t *testing.T) {
	f := newServiceFixture()
	f.store.err = errors.New("disk full")

	_, err := f.svc.Upload(context.Background(), UploadInput{
		UserID: "user-1", FileName: "cv.pdf", Industry: "technology", Data: []byte("%PDF-1.4"),
	})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected store error, got %v", err)
	}
	if items, _ := f.repo.ListByUser(context.Background(), "user-1", 0, 0); len(items) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestUploadPublishFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture()
	f.publisher.err = errors.New("broker down")

	res, err := f.svc.Upload(context.Background(), UploadInput{
		UserID: "user-1", FileName: "cv.docx", Industry: "technology", Data: buildDocx(t, "Jane"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.MimeType != extract.MimeDOCX {
		t.Fatalf("expected docx mime, got %q", res.MimeType)
	}
}

func TestComposeDefaultsFilename(t *testing.T) {
	f := newServiceFixture()

	res, err := f.svc.Compose(context.Background(), ComposeInput{UserID: "user-1", Content: sampleText, Industry: "technology"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if res.Filename != "resume.txt" || res.MimeType != extract.MimeText || res.OriginalContent != sampleText {
		t.Fatalf("unexpected resume %+v", res)
	}
	if f.analyzer.docs[0].Text != sampleText || f.analyzer.docs[0].Data != nil {
		t.Fatalf("compose should analyze text directly, got %+v", f.analyzer.docs[0])
	}
	if f.store.puts != nil {
		t.Fatal("compose should not write to the object store")
	}
}

func TestComposeValidation(t *testing.T) {
	f := newServiceFixture()
	if _, err := f.svc.Compose(context.Background(), ComposeInput{UserID: "u", Content: "  ", Industry: "technology"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.Compose(context.Background(), ComposeInput{UserID: "u", Content: "text"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReanalyzeReplacesResultWithoutStats(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	created, err := f.svc.Compose(ctx, ComposeInput{UserID: "user-1", Content: "first draft", Industry: "technology"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	f.analyzer.score = 60
	updated, err := f.svc.Reanalyze(ctx, "user-1", created.ID, "second draft", "finance")
	if err != nil {
		t.Fatalf("reanalyze: %v", err)
	}
	if updated.Analysis.Score != 60 || updated.Industry != "finance" || updated.OriginalContent != "second draft" {
		t.Fatalf("unexpected resume %+v", updated)
	}

	stored, _ := f.repo.GetByID(ctx, "user-1", created.ID)
	if stored.Analysis.Score != 60 || stored.OriginalContent != "second draft" || stored.Filename != created.Filename {
		t.Fatalf("stored record not replaced: %+v", stored)
	}
	if st, _ := f.stats.Get(ctx, "user-1"); st.ResumesAnalyzed != 1 || st.AvgScore != 85 {
		t.Fatalf("reanalysis must not change stats, got %+v", st)
	}
	if last := f.publisher.events[len(f.publisher.events)-1]; last.Type != events.TypeResumeReanalyzed {
		t.Fatalf("expected reanalyzed event, got %+v", last)
	}
}

func TestReanalyzeOtherUsersResume(t *testing.T) {
	f := newServiceFixture()
	created, _ := f.svc.Compose(context.Background(), ComposeInput{UserID: "owner", Content: "text", Industry: "technology"})

	_, err := f.svc.Reanalyze(context.Background(), "intruder", created.ID, "text", "technology")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMetaOnly(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	created, _ := f.svc.Compose(ctx, ComposeInput{UserID: "user-1", Content: sampleText, Industry: "technology"})
	calls := f.analyzer.calls()

	name := "final.txt"
	res, err := f.svc.Update(ctx, "user-1", created.ID, PatchInput{Filename: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Filename != "final.txt" || res.Industry != "technology" {
		t.Fatalf("unexpected resume %+v", res)
	}
	if f.analyzer.calls() != calls {
		t.Fatal("update must not re-run analysis")
	}

	blank := " "
	if _, err := f.svc.Update(ctx, "user-1", created.ID, PatchInput{Industry: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResumeNamesAreCleaned(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, UploadInput{
		UserID:   "user-1",
		FileName: "jobs/2024\\cv.pdf",
		MimeType: "application/pdf",
		Industry: "technology",
		Data:     []byte("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Filename != "jobs_2024_cv.pdf" {
		t.Fatalf("expected cleaned name, got %q", res.Filename)
	}
	if _, ok := f.store.puts["user-1/jobs_2024_cv.pdf"]; !ok {
		t.Fatalf("store should receive the cleaned name, got %v", f.store.puts)
	}

	if _, err := f.svc.Upload(ctx, UploadInput{
		UserID:   "user-1",
		FileName: "../../etc/passwd.pdf",
		MimeType: "application/pdf",
		Industry: "technology",
		Data:     []byte("%PDF-1.4 fake"),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for traversal name, got %v", err)
	}

	composed, err := f.svc.Compose(ctx, ComposeInput{UserID: "user-1", Filename: "drafts/v2.txt", Content: sampleText, Industry: "technology"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if composed.Filename != "drafts_v2.txt" {
		t.Fatalf("expected cleaned compose name, got %q", composed.Filename)
	}

	renamed := "final\tversion.txt"
	updated, err := f.svc.Update(ctx, "user-1", composed.ID, PatchInput{Filename: &renamed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Filename != "finalversion.txt" {
		t.Fatalf("expected control characters dropped, got %q", updated.Filename)
	}
	bad := ".."
	if _, err := f.svc.Update(ctx, "user-1", composed.ID, PatchInput{Filename: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for traversal rename, got %v", err)
	}
}

func TestUpdateContentKeepsAnalysis(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	created, _ := f.svc.Compose(ctx, ComposeInput{UserID: "user-1", Content: sampleText, Industry: "technology"})
	calls := f.analyzer.calls()

	content := "Edited draft"
	res, err := f.svc.Update(ctx, "user-1", created.ID, PatchInput{OriginalContent: &content})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.analyzer.calls() != calls {
		t.Fatal("update must not re-run analysis")
	}
	stored, err := f.svc.Get(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.OriginalContent != "Edited draft" || stored.ContentHash != res.ContentHash || stored.ContentHash == created.ContentHash {
		t.Fatalf("content not persisted: %+v", stored)
	}
	if stored.Analysis.Score != created.Analysis.Score {
		t.Fatalf("analysis changed: %d != %d", stored.Analysis.Score, created.Analysis.Score)
	}
}

func TestOptimizeUsesStoredSuggestions(t *testing.T) {
	f := newServiceFixture()
	f.optimizer.out = "Rewritten resume"
	created, _ := f.svc.Compose(context.Background(), ComposeInput{UserID: "user-1", Content: sampleText, Industry: "technology"})

	got, err := f.svc.Optimize(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if got != "Rewritten resume" {
		t.Fatalf("unexpected content %q", got)
	}
	if len(f.optimizer.got) != 1 || f.optimizer.got[0].Title != "Quantify" {
		t.Fatalf("expected stored suggestions, got %+v", f.optimizer.got)
	}
}
