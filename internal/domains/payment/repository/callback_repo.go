package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// CALLBACK LOG REPOSITORY
// =====================================================

type callbackRepository struct {
	pool *pgxpool.Pool
}

func NewCallbackRepository(pool *pgxpool.Pool) CallbackRepoInterface {
	return &callbackRepository{pool: pool}
}

func (r *callbackRepository) Create(ctx context.Context, log *model.CallbackLog) error {
	query := `
		INSERT INTO payment_callback_logs (
			id, payment_id, variant, event, payload, signature,
			is_valid, is_processed, received_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	payloadJSON, err := json.Marshal(log.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		log.ID,
		log.PaymentID,
		log.Variant,
		log.Event,
		payloadJSON,
		log.Signature,
		log.IsValid,
		log.IsProcessed,
		log.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create callback log: %w", err)
	}

	return nil
}

func (r *callbackRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE payment_callback_logs SET is_processed = TRUE WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark callback %s processed: %w", id, err)
	}
	return nil
}

func (r *callbackRepository) MarkProcessingError(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE payment_callback_logs SET processing_error = $2 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, reason); err != nil {
		return fmt.Errorf("failed to record callback %s processing error: %w", id, err)
	}
	return nil
}
