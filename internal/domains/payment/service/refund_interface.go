package service

import (
	"context"

	"mebelshop-backend/internal/domains/payment/model"
)

// RefundService orchestrates the refund flow for succeeded payments.
type RefundService interface {
	// RefundPayment recovers the RRN for the original charge, dispatches a
	// signed refund request and applies the result. A payment with no
	// recoverable RRN fails fast before any network call.
	RefundPayment(ctx context.Context, paymentID int64, req model.RefundPaymentRequest) (*model.RefundPaymentResponse, error)
}
