package payments

import (
	"errors"
	"time"
)

const PlanPremium = "premium"

var (
	// ErrInvalidInput indicates a payment with missing or malformed fields.
	ErrInvalidInput = errors.New("invalid payment")
)

// Payment is an order already captured by an external provider.
type Payment struct {
	UserID      string
	Provider    string
	OrderID     string
	AmountCents int64
	Currency    string
	Plan        string
}

// Receipt is the stored record of a payment.
type Receipt struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Provider    string    `json:"provider"`
	OrderID     string    `json:"orderId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"createdAt"`
}
