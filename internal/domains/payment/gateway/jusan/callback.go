package jusan

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// CALLBACK VERIFICATION & TRANSLATION
// =====================================================

// VerifyCallback checks the payload's signature under the configured dialect.
// Boolean only; no status interpretation happens here.
func (a *Adapter) VerifyCallback(payload gateway.CallbackPayload) bool {
	return a.scheme.VerifyCallback(map[string]string(payload), a.config.SharedSecret)
}

// ProcessCallback verifies the payload and translates the gateway's result
// code into a PaymentOutcome.
//
// A failed verification short-circuits to a SignatureMismatch error and the
// payload is never interpreted; a forged callback must not be able to flip a
// payment to approved. Translation itself is a pure function of the payload:
// no counters, no clock, no randomness, so reprocessing a duplicate delivery
// yields an identical outcome.
func (a *Adapter) ProcessCallback(payload gateway.CallbackPayload) (*gateway.PaymentOutcome, error) {
	if !a.VerifyCallback(payload) {
		return nil, model.NewSignatureMismatchError()
	}

	code := payload.Get(a.scheme.ResultField)

	if a.scheme.IsSuccessCode(code) {
		return a.approvedOutcome(payload, code), nil
	}
	return a.declinedOutcome(payload, code), nil
}

func (a *Adapter) approvedOutcome(payload gateway.CallbackPayload, code string) *gateway.PaymentOutcome {
	out := &gateway.PaymentOutcome{
		Kind:        gateway.OutcomeApproved,
		InvoiceRef:  a.callbackRef(payload),
		RRN:         payload.Get("rrn"),
		Currency:    payload.Get("currency"),
		Code:        code,
		Description: a.callbackMessage(payload),
	}
	if amt, err := decimal.NewFromString(payload.Get("amount")); err == nil {
		out.Amount = amt
	}
	return out
}

func (a *Adapter) declinedOutcome(payload gateway.CallbackPayload, code string) *gateway.PaymentOutcome {
	return &gateway.PaymentOutcome{
		Kind:        gateway.OutcomeDeclined,
		InvoiceRef:  a.callbackRef(payload),
		Code:        code,
		Description: a.declineMessage(payload),
	}
}

// callbackRef picks the composite order reference out of the payload. The
// legacy dialect echoes transaction_id or order_id, the ecom dialect echoes
// order.
func (a *Adapter) callbackRef(payload gateway.CallbackPayload) string {
	if a.scheme.Variant == VariantEcom {
		return payload.Get("order")
	}
	if ref := payload.Get("transaction_id"); ref != "" {
		return ref
	}
	return payload.Get("order_id")
}

func (a *Adapter) callbackMessage(payload gateway.CallbackPayload) string {
	if a.scheme.Variant == VariantEcom {
		return payload.Get("res_desc")
	}
	if msg := payload.Get("message"); msg != "" {
		return msg
	}
	return payload.Get("details")
}

// declineMessage passes the gateway's own wording through verbatim so the
// customer sees the real decline reason, with a generic fallback when the
// gateway sent nothing.
func (a *Adapter) declineMessage(payload gateway.CallbackPayload) string {
	if a.scheme.Variant == VariantEcom {
		if msg := payload.Get("res_desc"); msg != "" {
			return msg
		}
		return "Payment failed"
	}
	if msg := payload.Get("error_message"); msg != "" {
		return msg
	}
	if msg := payload.Get("message"); msg != "" {
		return msg
	}
	return "Payment failed"
}

// PaymentIDFromCallback recovers the host payment id. The composite reference
// {orderId}_{paymentId} is preferred; the payment_id query parameter placed
// on the notify URL is the side channel for payloads without one.
func (a *Adapter) PaymentIDFromCallback(payload gateway.CallbackPayload) (int64, bool) {
	ref := a.callbackRef(payload)
	if _, paymentID, ok := SplitRef(ref); ok {
		return paymentID, true
	}
	if raw := payload.Get("payment_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// IsGatewayCallback is the indicative-field check used to route inbound
// requests: the legacy dialect always carries mid and order_id, the ecom
// dialect order and sign.
func (a *Adapter) IsGatewayCallback(payload gateway.CallbackPayload) bool {
	if a.scheme.Variant == VariantEcom {
		return payload.Has("order") && payload.Has("sign")
	}
	return payload.Has("mid") && payload.Has("order_id")
}

// SplitRef parses a composite reference back into its order and payment ids.
func SplitRef(ref string) (orderID, paymentID int64, ok bool) {
	parts := strings.SplitN(ref, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	orderID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	paymentID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return orderID, paymentID, true
}
