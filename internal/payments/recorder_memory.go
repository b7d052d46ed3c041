package payments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecorder keeps receipts in process memory.
type MemoryRecorder struct {
	mu       sync.Mutex
	receipts map[string]Receipt // provider|order -> receipt
	now      func() time.Time
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		receipts: make(map[string]Receipt),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRecorder) RecordPayment(ctx context.Context, p Payment) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	p, err := normalize(p)
	if err != nil {
		return Receipt{}, err
	}
	key := p.Provider + "|" + p.OrderID
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.receipts[key]; ok {
		return existing, nil
	}
	rec := Receipt{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		Provider:    p.Provider,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Plan:        p.Plan,
		CreatedAt:   r.now(),
	}
	r.receipts[key] = rec
	return rec, nil
}

func (r *MemoryRecorder) HasPlan(ctx context.Context, userID, plan string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.receipts {
		if rec.UserID == userID && rec.Plan == plan {
			return true, nil
		}
	}
	return false, nil
}
