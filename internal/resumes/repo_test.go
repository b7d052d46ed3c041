package resumes

import (
	"context"
	"database/sql/driver"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-optimizer/internal/analysis"
)

func sampleResume() Resume {
	return Resume{
		ID:              "resume-1",
		UserID:          "user-1",
		Filename:        "cv.pdf",
		Industry:        "technology",
		OriginalContent: sampleText,
		MimeType:        "application/pdf",
		StorageKey:      "abc/cv.pdf",
		ContentHash:     "hash",
		Analysis: analysis.Result{
			Score:        78,
			Strengths:    []string{"Clear structure"},
			Improvements: []string{"Add metrics"},
			KeywordMatch: 70,
			Formatting:   80,
			Content:      75,
			EmploymentGaps: []analysis.EmploymentGap{{
				StartDate: "2019-04", EndDate: "2019-12", Duration: 9,
				Severity: analysis.SeverityModerate, Recommendations: []string{"Explain it"},
			}},
			Suggestions: []analysis.Suggestion{{
				ID: 1, Type: analysis.SuggestionKeywords, Title: "Add keywords", Description: "Mention Docker",
				Keywords: []string{"Docker"}, Priority: analysis.PriorityHigh,
			}},
			SkillsGap: []analysis.SkillGap{{Skill: "Docker", CurrentLevel: 20, TargetLevel: 85, Importance: 80}},
		},
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

// captureArg records the driver value it is matched against.
type captureArg struct {
	value *driver.Value
}

func (a captureArg) Match(v driver.Value) bool {
	*a.value = v
	return true
}

func TestPGRepoRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	in := sampleResume()

	var analysisJSON, suggestionsJSON, skillsJSON driver.Value
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			in.ID, in.UserID, in.Filename, in.Industry, in.OriginalContent,
			in.MimeType, in.StorageKey, in.ContentHash, in.Analysis.Score,
			captureArg{&analysisJSON}, captureArg{&suggestionsJSON}, captureArg{&skillsJSON},
			in.CreatedAt, in.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mock.ExpectQuery("SELECT id, user_id, filename").
		WithArgs(in.UserID, in.ID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "filename", "industry", "original_content", "mime_type", "storage_key",
			"content_hash", "ats_score", "analysis", "suggestions", "skills_gap", "created_at", "updated_at",
		}).AddRow(
			in.ID, in.UserID, in.Filename, in.Industry, in.OriginalContent, in.MimeType, in.StorageKey,
			in.ContentHash, in.Analysis.Score, analysisJSON, suggestionsJSON, skillsJSON, in.CreatedAt, in.UpdatedAt,
		))

	got, err := repo.GetByID(context.Background(), in.UserID, in.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, user_id, filename").
		WithArgs("intruder", "resume-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&PGRepo{DB: db}).GetByID(context.Background(), "intruder", "resume-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoReplaceAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	in := sampleResume()

	mock.ExpectExec("UPDATE resumes").
		WithArgs(in.UserID, in.ID, in.OriginalContent, in.ContentHash, in.Industry, 78,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), in.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes").
		WithArgs("someone-else", in.ID, in.OriginalContent, in.ContentHash, in.Industry, 78,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), in.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ReplaceAnalysis(context.Background(), in); err != nil {
		t.Fatalf("ReplaceAnalysis: %v", err)
	}
	other := in
	other.UserID = "someone-else"
	if err := repo.ReplaceAnalysis(context.Background(), other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMeta(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	in := sampleResume()
	in.OriginalContent = "Edited draft"

	mock.ExpectExec("UPDATE resumes").
		WithArgs(in.UserID, in.ID, in.Filename, in.Industry, "Edited draft", in.ContentHash, in.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateMeta(context.Background(), in); err != nil {
		t.Fatalf("UpdateMeta: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryRepoScopesByUser(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	in := sampleResume()
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "intruder", in.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	other := in
	other.UserID = "intruder"
	if err := repo.UpdateMeta(ctx, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := repo.GetByID(ctx, in.UserID, in.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("mismatch:\n got %+v\nwant %+v", got, in)
	}
	got.Analysis.Strengths[0] = "mutated"
	again, _ := repo.GetByID(ctx, in.UserID, in.ID)
	if again.Analysis.Strengths[0] != "Clear structure" {
		t.Fatal("stored state leaked to caller")
	}
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		res := sampleResume()
		res.ID = id
		res.CreatedAt = fixedNow.Add(time.Duration(i) * time.Minute)
		_ = repo.Create(ctx, res)
	}

	got, err := repo.ListByUser(ctx, "user-1", 2, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected order %v", []string{got[0].ID, got[1].ID})
	}

	rest, _ := repo.ListByUser(ctx, "user-1", 2, 2)
	if len(rest) != 1 || rest[0].ID != "a" {
		t.Fatalf("unexpected page %+v", rest)
	}
}
