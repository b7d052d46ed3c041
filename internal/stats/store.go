package stats

import (
	"context"
	"errors"
)

// ErrInvalidUser is returned when a stats operation has no user.
var ErrInvalidUser = errors.New("user id is required")

// Store persists per-user analysis counters.
type Store interface {
	// RecordAnalysis counts one more analysis with the given score and returns the new totals.
	RecordAnalysis(ctx context.Context, userID string, score int) (UserStats, error)
	// Get returns zero stats for users with no analyses.
	Get(ctx context.Context, userID string) (UserStats, error)
}
