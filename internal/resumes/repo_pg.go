package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-optimizer/internal/analysis"
)

// PGRepo implements Repo using Postgres. The analysis is split over the
// ats_score column and three JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

// analysisColumn is the JSONB shape of the analysis column.
type analysisColumn struct {
	KeywordMatch   int                      `json:"keywordMatch"`
	Formatting     int                      `json:"formatting"`
	Content        int                      `json:"content"`
	Strengths      []string                 `json:"strengths"`
	Improvements   []string                 `json:"improvements"`
	EmploymentGaps []analysis.EmploymentGap `json:"employmentGaps"`
}

const resumeColumns = `id, user_id, filename, industry, original_content, mime_type, storage_key, content_hash, ats_score, analysis, suggestions, skills_gap, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    filename,
    industry,
    original_content,
    mime_type,
    storage_key,
    content_hash,
    ats_score,
    analysis,
    suggestions,
    skills_gap,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12::jsonb, $13, $14)`

	cols, err := encodeAnalysis(res.Analysis)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.UserID,
		res.Filename,
		res.Industry,
		res.OriginalContent,
		nullString(res.MimeType),
		nullString(res.StorageKey),
		nullString(res.ContentHash),
		res.Analysis.Score,
		cols.analysis,
		cols.suggestions,
		cols.skillsGap,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// ListByUser lists resumes ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) ReplaceAnalysis(ctx context.Context, res Resume) error {
	const query = `
UPDATE resumes
SET original_content = $3,
    content_hash = $4,
    industry = $5,
    ats_score = $6,
    analysis = $7::jsonb,
    suggestions = $8::jsonb,
    skills_gap = $9::jsonb,
    updated_at = $10
WHERE user_id = $1 AND id = $2`

	cols, err := encodeAnalysis(res.Analysis)
	if err != nil {
		return err
	}
	result, err := r.DB.ExecContext(
		ctx,
		query,
		res.UserID,
		res.ID,
		res.OriginalContent,
		nullString(res.ContentHash),
		res.Industry,
		res.Analysis.Score,
		cols.analysis,
		cols.suggestions,
		cols.skillsGap,
		res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *PGRepo) UpdateMeta(ctx context.Context, res Resume) error {
	const query = `
UPDATE resumes
SET filename = $3,
    industry = $4,
    original_content = $5,
    content_hash = $6,
    updated_at = $7
WHERE user_id = $1 AND id = $2`
	result, err := r.DB.ExecContext(ctx, query,
		res.UserID, res.ID, res.Filename, res.Industry,
		res.OriginalContent, nullString(res.ContentHash), res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var mimeType sql.NullString
	var storageKey sql.NullString
	var contentHash sql.NullString
	var analysisRaw, suggestionsRaw, skillsRaw []byte
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Filename,
		&res.Industry,
		&res.OriginalContent,
		&mimeType,
		&storageKey,
		&contentHash,
		&res.Analysis.Score,
		&analysisRaw,
		&suggestionsRaw,
		&skillsRaw,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if mimeType.Valid {
		res.MimeType = mimeType.String
	}
	if storageKey.Valid {
		res.StorageKey = storageKey.String
	}
	if contentHash.Valid {
		res.ContentHash = contentHash.String
	}

	var cols analysisColumn
	if len(analysisRaw) > 0 {
		if err := json.Unmarshal(analysisRaw, &cols); err != nil {
			return Resume{}, fmt.Errorf("decode analysis: %w", err)
		}
	}
	res.Analysis.KeywordMatch = cols.KeywordMatch
	res.Analysis.Formatting = cols.Formatting
	res.Analysis.Content = cols.Content
	res.Analysis.Strengths = cols.Strengths
	res.Analysis.Improvements = cols.Improvements
	res.Analysis.EmploymentGaps = cols.EmploymentGaps
	if len(suggestionsRaw) > 0 {
		if err := json.Unmarshal(suggestionsRaw, &res.Analysis.Suggestions); err != nil {
			return Resume{}, fmt.Errorf("decode suggestions: %w", err)
		}
	}
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &res.Analysis.SkillsGap); err != nil {
			return Resume{}, fmt.Errorf("decode skills gap: %w", err)
		}
	}
	res.Analysis = res.Analysis.Sanitize()
	return res, nil
}

type encodedAnalysis struct {
	analysis    string
	suggestions string
	skillsGap   string
}

func encodeAnalysis(a analysis.Result) (encodedAnalysis, error) {
	a = a.Sanitize()
	cols, err := json.Marshal(analysisColumn{
		KeywordMatch:   a.KeywordMatch,
		Formatting:     a.Formatting,
		Content:        a.Content,
		Strengths:      a.Strengths,
		Improvements:   a.Improvements,
		EmploymentGaps: a.EmploymentGaps,
	})
	if err != nil {
		return encodedAnalysis{}, fmt.Errorf("encode analysis: %w", err)
	}
	suggestions, err := json.Marshal(a.Suggestions)
	if err != nil {
		return encodedAnalysis{}, fmt.Errorf("encode suggestions: %w", err)
	}
	skills, err := json.Marshal(a.SkillsGap)
	if err != nil {
		return encodedAnalysis{}, fmt.Errorf("encode skills gap: %w", err)
	}
	return encodedAnalysis{
		analysis:    string(cols),
		suggestions: string(suggestions),
		skillsGap:   string(skills),
	}, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
