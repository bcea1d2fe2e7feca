package order

import (
	"context"
)

// Service exposes the order operations the payment domain needs.
type Service interface {
	// GetOrder fetches an order for payment initiation.
	GetOrder(ctx context.Context, id int64) (*Order, error)

	// MarkPaid moves a pending order to paid after an approved callback.
	MarkPaid(ctx context.Context, id int64) error

	// MarkRefunded moves a paid order to refunded.
	MarkRefunded(ctx context.Context, id int64) error
}
