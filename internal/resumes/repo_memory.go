package resumes

import (
	"context"
	"sort"
	"sync"

	"resume-optimizer/internal/analysis"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.ID] = cloneResume(res)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[id]
	if !ok || res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return cloneResume(res), nil
}

// ListByUser returns resumes newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	out := make([]Resume, 0)
	for _, res := range r.data {
		if res.UserID == userID {
			out = append(out, cloneResume(res))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Resume{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) ReplaceAnalysis(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[res.ID]
	if !ok || cur.UserID != res.UserID {
		return ErrNotFound
	}
	cur.OriginalContent = res.OriginalContent
	cur.ContentHash = res.ContentHash
	cur.Industry = res.Industry
	cur.Analysis = res.Analysis
	cur.UpdatedAt = res.UpdatedAt
	r.data[res.ID] = cloneResume(cur)
	return nil
}

func (r *MemoryRepo) UpdateMeta(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[res.ID]
	if !ok || cur.UserID != res.UserID {
		return ErrNotFound
	}
	cur.Filename = res.Filename
	cur.Industry = res.Industry
	cur.OriginalContent = res.OriginalContent
	cur.ContentHash = res.ContentHash
	cur.UpdatedAt = res.UpdatedAt
	r.data[res.ID] = cur
	return nil
}

// cloneResume copies the analysis slices so callers never share stored state.
func cloneResume(res Resume) Resume {
	a := res.Analysis
	a.Strengths = append([]string(nil), a.Strengths...)
	a.Improvements = append([]string(nil), a.Improvements...)
	a.Suggestions = append([]analysis.Suggestion(nil), a.Suggestions...)
	a.SkillsGap = append([]analysis.SkillGap(nil), a.SkillsGap...)
	a.EmploymentGaps = append([]analysis.EmploymentGap(nil), a.EmploymentGaps...)
	res.Analysis = a.Sanitize()
	return res
}
