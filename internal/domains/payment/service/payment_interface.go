package service

import (
	"context"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// SERVICE INTERFACES
// =====================================================

// PaymentService orchestrates payment initiation and callback processing.
type PaymentService interface {
	// CreatePayment initiates a payment for a pending order and returns the
	// redirect/form descriptor for handing the customer to the gateway.
	CreatePayment(ctx context.Context, req model.CreatePaymentRequest) (*model.CreatePaymentResponse, error)

	// GetPaymentStatus returns the current state of one payment.
	GetPaymentStatus(ctx context.Context, paymentID int64) (*model.PaymentStatusResponse, error)

	// ProcessCallback verifies an inbound gateway notification, applies the
	// resulting state change and returns the outcome. Verification failure
	// never touches payment state.
	ProcessCallback(ctx context.Context, payload gateway.CallbackPayload) (*gateway.PaymentOutcome, error)

	// IsGatewayCallback reports whether a request payload looks like a
	// gateway notification for the configured dialect.
	IsGatewayCallback(payload gateway.CallbackPayload) bool
}
