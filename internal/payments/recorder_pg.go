package payments

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PGRecorder stores receipts in the payments table.
type PGRecorder struct {
	DB *sql.DB
}

// RecordPayment inserts the receipt, or returns the existing row when the
// (provider, order_id) pair was already recorded.
func (r *PGRecorder) RecordPayment(ctx context.Context, p Payment) (Receipt, error) {
	p, err := normalize(p)
	if err != nil {
		return Receipt{}, err
	}
	const query = `
WITH ins AS (
    INSERT INTO payments (id, user_id, provider, order_id, amount_cents, currency, plan, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, now())
    ON CONFLICT (provider, order_id) DO NOTHING
    RETURNING id, user_id, provider, order_id, amount_cents, currency, plan, created_at
)
SELECT id, user_id, provider, order_id, amount_cents, currency, plan, created_at FROM ins
UNION ALL
SELECT id, user_id, provider, order_id, amount_cents, currency, plan, created_at
FROM payments WHERE provider = $3 AND order_id = $4
LIMIT 1`
	var rec Receipt
	err = r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		p.UserID,
		p.Provider,
		p.OrderID,
		p.AmountCents,
		p.Currency,
		p.Plan,
	).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Provider,
		&rec.OrderID,
		&rec.AmountCents,
		&rec.Currency,
		&rec.Plan,
		&rec.CreatedAt,
	)
	if err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

func (r *PGRecorder) HasPlan(ctx context.Context, userID, plan string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payments WHERE user_id = $1 AND plan = $2)`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, userID, plan).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
