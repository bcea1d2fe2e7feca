package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT REPOSITORY IMPLEMENTATION
// =====================================================

type paymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepoInterface {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `
	id, order_id, variant, invoice_ref, amount, currency, status,
	rrn, status_code, status_message,
	initiated_at, completed_at, failed_at, refunded_at,
	created_at, updated_at
`

func (r *paymentRepository) Create(ctx context.Context, payment *model.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (
			order_id, variant, invoice_ref, amount, currency, status, initiated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		payment.OrderID,
		payment.Variant,
		payment.InvoiceRef,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.InitiatedAt,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), id)
}

func (r *paymentRepository) GetByInvoiceRef(ctx context.Context, invoiceRef string) (*model.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE invoice_ref = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, invoiceRef), 0)
}

func (r *paymentRepository) scanOne(row pgx.Row, id int64) (*model.PaymentTransaction, error) {
	var p model.PaymentTransaction
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Variant, &p.InvoiceRef, &p.Amount, &p.Currency, &p.Status,
		&p.RRN, &p.StatusCode, &p.StatusMessage,
		&p.InitiatedAt, &p.CompletedAt, &p.FailedAt, &p.RefundedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewPaymentNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment transaction: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) SetInvoiceRef(ctx context.Context, id int64, invoiceRef string) error {
	query := `UPDATE payment_transactions SET invoice_ref = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, invoiceRef); err != nil {
		return fmt.Errorf("failed to set invoice ref on payment %d: %w", id, err)
	}
	return nil
}

// MarkSucceeded is guarded on status so a replayed approval callback cannot
// bump timestamps or overwrite the captured RRN.
func (r *paymentRepository) MarkSucceeded(ctx context.Context, id int64, rrn, code, message string) error {
	query := `
		UPDATE payment_transactions
		SET status = $2, rrn = NULLIF($3, ''), status_code = $4, status_message = $5,
		    completed_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7
	`

	_, err := r.pool.Exec(ctx, query,
		id,
		model.PaymentStatusSucceeded,
		rrn,
		code,
		message,
		time.Now(),
		model.PaymentStatusInitiated,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %d succeeded: %w", id, err)
	}

	return nil
}

// MarkFailed only moves initiated payments; a succeeded payment stays
// succeeded no matter what arrives later.
func (r *paymentRepository) MarkFailed(ctx context.Context, id int64, code, message string) error {
	query := `
		UPDATE payment_transactions
		SET status = $2, status_code = $3, status_message = $4,
		    failed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`

	_, err := r.pool.Exec(ctx, query,
		id,
		model.PaymentStatusFailed,
		code,
		message,
		time.Now(),
		model.PaymentStatusInitiated,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %d failed: %w", id, err)
	}

	return nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, id int64, refundRef, message string) error {
	query := `
		UPDATE payment_transactions
		SET status = $2, status_message = $3, refunded_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		model.PaymentStatusRefunded,
		fmt.Sprintf("%s: %s", refundRef, message),
		time.Now(),
		model.PaymentStatusSucceeded,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %d refunded: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotRefundableError("not succeeded")
	}

	return nil
}
