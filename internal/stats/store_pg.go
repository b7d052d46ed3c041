package stats

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGStore stores stats in the user_stats table.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed stats store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

// RecordAnalysis applies the increment and the rounded running average in one
// upsert, so concurrent uploads for the same user serialize on the row lock.
func (s *PGStore) RecordAnalysis(ctx context.Context, userID string, score int) (UserStats, error) {
	if strings.TrimSpace(userID) == "" {
		return UserStats{}, ErrInvalidUser
	}
	const q = `
INSERT INTO user_stats (user_id, resumes_analyzed, avg_score, interviews, updated_at)
VALUES ($1, 1, $2, 0, now())
ON CONFLICT (user_id) DO UPDATE SET
  avg_score = FLOOR((user_stats.avg_score::numeric * user_stats.resumes_analyzed + EXCLUDED.avg_score) / (user_stats.resumes_analyzed + 1) + 0.5)::int,
  resumes_analyzed = user_stats.resumes_analyzed + 1,
  updated_at = now()
RETURNING user_id, resumes_analyzed, avg_score, interviews, updated_at`
	var out UserStats
	err := s.DB.QueryRowContext(ctx, q, userID, score).Scan(
		&out.UserID,
		&out.ResumesAnalyzed,
		&out.AvgScore,
		&out.Interviews,
		&out.UpdatedAt,
	)
	if err != nil {
		return UserStats{}, err
	}
	return out, nil
}

func (s *PGStore) Get(ctx context.Context, userID string) (UserStats, error) {
	if strings.TrimSpace(userID) == "" {
		return UserStats{}, ErrInvalidUser
	}
	const q = `
SELECT user_id, resumes_analyzed, avg_score, interviews, updated_at
FROM user_stats WHERE user_id = $1`
	var out UserStats
	err := s.DB.QueryRowContext(ctx, q, userID).Scan(
		&out.UserID,
		&out.ResumesAnalyzed,
		&out.AvgScore,
		&out.Interviews,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserStats{UserID: userID}, nil
		}
		return UserStats{}, err
	}
	return out, nil
}
