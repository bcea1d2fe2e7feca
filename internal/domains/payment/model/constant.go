package model

// =====================================================
// PAYMENT STATUS
// =====================================================
// Transitions are final: initiated → succeeded | failed, and a succeeded
// payment may move to refunded. Nothing else.
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

var ValidPaymentStatuses = []string{
	PaymentStatusInitiated,
	PaymentStatusSucceeded,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// =====================================================
// PROTOCOL VARIANTS (wire names stored with the transaction)
// =====================================================
const (
	VariantLegacy = "legacy"
	VariantEcom   = "ecom"
)

var ValidVariants = []string{VariantLegacy, VariantEcom}

// =====================================================
// CALLBACK EVENTS
// =====================================================
const (
	CallbackEventPaymentResult = "payment.result"
	CallbackEventRefundResult  = "refund.result"
)
