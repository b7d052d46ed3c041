package stats

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps stats in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	stats map[string]UserStats
	now   func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats: make(map[string]UserStats),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) RecordAnalysis(ctx context.Context, userID string, score int) (UserStats, error) {
	if err := ctx.Err(); err != nil {
		return UserStats{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return UserStats{}, ErrInvalidUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.stats[userID]
	if !ok {
		cur = UserStats{UserID: userID}
	}
	cur.AvgScore = nextAverage(cur.AvgScore, cur.ResumesAnalyzed, score)
	cur.ResumesAnalyzed++
	cur.UpdatedAt = s.now()
	s.stats[userID] = cur
	return cur, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (UserStats, error) {
	if err := ctx.Err(); err != nil {
		return UserStats{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return UserStats{}, ErrInvalidUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.stats[userID]; ok {
		return cur, nil
	}
	return UserStats{UserID: userID}, nil
}
