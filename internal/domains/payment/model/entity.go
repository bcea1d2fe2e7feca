package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT TRANSACTION
// =====================================================

// PaymentTransaction is the persisted record of one payment attempt. Amount
// and currency are copied from the order at initiation and never recomputed
// from callback data.
type PaymentTransaction struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`

	Variant    string          `json:"variant"`     // protocol dialect used
	InvoiceRef string          `json:"invoice_ref"` // composite {orderId}_{paymentId}
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`

	// RRN is the gateway transaction reference captured from the approval
	// callback. Refunds on the ecom dialect require it.
	RRN *string `json:"rrn,omitempty"`

	StatusCode    *string `json:"status_code,omitempty"`
	StatusMessage *string `json:"status_message,omitempty"`

	InitiatedAt time.Time  `json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Refundable reports whether a refund may even be attempted.
func (p *PaymentTransaction) Refundable() bool {
	return p.Status == PaymentStatusSucceeded
}

// =====================================================
// CALLBACK LOG
// =====================================================

// CallbackLog is the audit record of one inbound gateway notification,
// written before any state change so forged or duplicate callbacks leave a
// trace.
type CallbackLog struct {
	ID        uuid.UUID `json:"id"`
	PaymentID *int64    `json:"payment_id,omitempty"`
	Variant   string    `json:"variant"`
	Event     string    `json:"event"`

	Payload   map[string]string `json:"payload"`
	Signature *string           `json:"signature,omitempty"`

	IsValid         *bool   `json:"is_valid,omitempty"`
	IsProcessed     bool    `json:"is_processed"`
	ProcessingError *string `json:"processing_error,omitempty"`

	ReceivedAt time.Time `json:"received_at"`
}
