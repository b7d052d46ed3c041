package resumes

import "context"

// Repo defines persistence operations for resumes. Lookups are scoped to the
// owning user; another user's resume is reported as ErrNotFound.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	// ReplaceAnalysis overwrites content, industry and analysis in one write.
	ReplaceAnalysis(ctx context.Context, r Resume) error
	// UpdateMeta writes filename, industry and content without touching the analysis.
	UpdateMeta(ctx context.Context, r Resume) error
}
