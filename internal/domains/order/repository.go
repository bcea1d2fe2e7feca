package order

import (
	"context"
)

// Repository is the order data access contract.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)

	// UpdateStatus moves an order between lifecycle states.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
