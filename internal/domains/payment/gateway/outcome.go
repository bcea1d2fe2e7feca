package gateway

import (
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT OUTCOME
// =====================================================

// OutcomeKind tags the result of processing a callback or refund response.
type OutcomeKind string

const (
	OutcomePending        OutcomeKind = "pending"
	OutcomeApproved       OutcomeKind = "approved"
	OutcomeDeclined       OutcomeKind = "declined"
	OutcomeRefundApproved OutcomeKind = "refund_approved"
	OutcomeRefundDeclined OutcomeKind = "refund_declined"
)

// PaymentOutcome is the only externally observable result of processing a
// gateway callback or refund response. It is a plain value: recomputing it
// from the same inputs yields an identical outcome.
type PaymentOutcome struct {
	Kind       OutcomeKind
	InvoiceRef string // composite order reference echoed by the gateway
	RRN        string // gateway transaction reference, when supplied
	Amount     decimal.Decimal
	Currency   string

	// Gateway code and human message, passed through verbatim on declines.
	Code        string
	Description string
}

// Approved reports whether the outcome settles money toward the merchant.
func (o *PaymentOutcome) Approved() bool {
	return o.Kind == OutcomeApproved
}

// RefundSucceeded reports whether the outcome settles money back to the payer.
func (o *PaymentOutcome) RefundSucceeded() bool {
	return o.Kind == OutcomeRefundApproved
}
