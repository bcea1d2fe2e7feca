package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mebelshop-backend/internal/domains/order"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the order repository.
func NewPostgresRepository(pool *pgxpool.Pool) order.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	const query = `
		SELECT id, customer_email, total, currency, description, status,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o order.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.CustomerEmail,
		&o.Total,
		&o.Currency,
		&o.Description,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	return &o, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}
