package payments

import (
	"context"
	"fmt"
	"strings"
)

// Recorder stores payment receipts. Recording the same (provider, order id)
// twice returns the first receipt.
type Recorder interface {
	RecordPayment(ctx context.Context, p Payment) (Receipt, error)
	HasPlan(ctx context.Context, userID, plan string) (bool, error)
}

func normalize(p Payment) (Payment, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Provider = strings.ToLower(strings.TrimSpace(p.Provider))
	p.OrderID = strings.TrimSpace(p.OrderID)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Plan = strings.ToLower(strings.TrimSpace(p.Plan))
	if p.Plan == "" {
		p.Plan = PlanPremium
	}
	switch {
	case p.UserID == "":
		return Payment{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	case p.Provider == "" || p.OrderID == "":
		return Payment{}, fmt.Errorf("%w: provider and orderId are required", ErrInvalidInput)
	case p.AmountCents <= 0:
		return Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	case len(p.Currency) != 3:
		return Payment{}, fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidInput)
	}
	return p, nil
}
