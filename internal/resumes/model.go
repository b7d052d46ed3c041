package resumes

import (
	"time"

	"resume-optimizer/internal/analysis"
)

// Resume is a stored resume together with its latest analysis.
type Resume struct {
	ID              string
	UserID          string
	Filename        string
	Industry        string
	OriginalContent string
	MimeType        string
	StorageKey      string
	ContentHash     string
	Analysis        analysis.Result
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
