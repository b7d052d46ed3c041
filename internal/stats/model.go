package stats

import "time"

// UserStats aggregates a user's analysis history.
type UserStats struct {
	UserID          string    `json:"userId"`
	ResumesAnalyzed int       `json:"resumesAnalyzed"`
	AvgScore        int       `json:"avgScore"`
	Interviews      int       `json:"interviews"`
	UpdatedAt       time.Time `json:"-"`
}

// nextAverage folds score into a running average of n scores, rounding half up.
func nextAverage(avg, n, score int) int {
	total := avg*n + score
	count := n + 1
	return (2*total + count) / (2 * count)
}
