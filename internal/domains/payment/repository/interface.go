package repository

import (
	"context"

	"github.com/google/uuid"

	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// REPOSITORY INTERFACES
// =====================================================

// PaymentRepoInterface is the "apply payment state update" collaborator. The
// protocol core never touches it directly; the service layer feeds it
// outcomes.
type PaymentRepoInterface interface {
	// Create inserts a new payment attempt and fills in the generated id.
	Create(ctx context.Context, payment *model.PaymentTransaction) error

	// GetByID fetches one payment transaction.
	GetByID(ctx context.Context, id int64) (*model.PaymentTransaction, error)

	// GetByInvoiceRef fetches a payment by its composite gateway reference.
	GetByInvoiceRef(ctx context.Context, invoiceRef string) (*model.PaymentTransaction, error)

	// SetInvoiceRef stores the composite reference once the generated id is
	// known (the reference embeds the payment id).
	SetInvoiceRef(ctx context.Context, id int64, invoiceRef string) error

	// MarkSucceeded records an approved callback: status, RRN, gateway code
	// and message. Idempotent: reapplying the same approval is a no-op.
	MarkSucceeded(ctx context.Context, id int64, rrn, code, message string) error

	// MarkFailed records a declined callback. A payment already succeeded is
	// left untouched (late duplicate declines must not regress state).
	MarkFailed(ctx context.Context, id int64, code, message string) error

	// MarkRefunded records a completed refund against the original payment.
	MarkRefunded(ctx context.Context, id int64, refundRef, message string) error
}

// CallbackRepoInterface persists the audit trail of inbound notifications.
type CallbackRepoInterface interface {
	// Create inserts a callback log row.
	Create(ctx context.Context, log *model.CallbackLog) error

	// MarkProcessed flags a logged callback as handled.
	MarkProcessed(ctx context.Context, id uuid.UUID) error

	// MarkProcessingError stores why handling a logged callback failed.
	MarkProcessingError(ctx context.Context, id uuid.UUID, reason string) error
}

// IdempotencyStore short-circuits duplicate callback deliveries. Backed by
// Redis with a TTL; losing a marker only costs one harmless reprocessing of
// an idempotent translation.
type IdempotencyStore interface {
	// MarkProcessed records that a callback identity was handled. Returns
	// false if it was already recorded (duplicate delivery).
	MarkProcessed(ctx context.Context, key string) (bool, error)
}
