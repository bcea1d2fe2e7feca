package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// JusanGateway is the contract between the payment service and the Jusan
// protocol adapter. One adapter instance serves exactly one protocol variant
// (legacy GET redirect or ecom POST form); the variant is fixed by
// configuration, never chosen per call.
type JusanGateway interface {
	// BuildInitiationRequest maps a payment into a fully signed request
	// descriptor. No network call is made; the caller dispatches or renders it.
	BuildInitiationRequest(req PaymentRequest) (*InitiationRequest, error)

	// VerifyCallback checks the signature of an inbound gateway notification.
	// It returns a boolean only; interpreting the payment status is
	// ProcessCallback's job and must only happen after verification passes.
	VerifyCallback(payload CallbackPayload) bool

	// ProcessCallback verifies and translates an inbound notification into a
	// PaymentOutcome. Pure with respect to the payload: the same payload
	// always yields the same outcome.
	ProcessCallback(payload CallbackPayload) (*PaymentOutcome, error)

	// InitiateRefund signs and dispatches a refund request to the gateway and
	// translates its JSON response into a refund outcome. Transport and parse
	// failures surface as RefundDeclined outcomes wrapped in an error, never
	// as a panic.
	InitiateRefund(ctx context.Context, req RefundRequest) (*PaymentOutcome, error)

	// PaymentIDFromCallback extracts the host payment id from the composite
	// order reference echoed by the gateway, falling back to the payment_id
	// query parameter carried on the notify URL.
	PaymentIDFromCallback(payload CallbackPayload) (int64, bool)

	// IsGatewayCallback reports whether an inbound request looks like a
	// notification for this gateway (indicative-field check).
	IsGatewayCallback(payload CallbackPayload) bool
}

// =====================================================
// REQUEST TYPES
// =====================================================

// PaymentRequest is the input to BuildInitiationRequest. Amount and currency
// come from the order collaborator and are taken as-is; the adapter never
// derives them. Optional fields that the active variant does not carry are
// simply ignored.
type PaymentRequest struct {
	OrderID   int64
	PaymentID int64
	Amount    decimal.Decimal
	Currency  string // ISO-4217-like, defaults to KZT when empty

	Descriptor       string // merchant name on the cardholder statement
	OrderDescription string
	CustomerEmail    string
	ClientID         string
	Language         string

	ReturnURL string
	CancelURL string
	NotifyURL string // payment_id query param is appended by the builder
}

// InitiationRequest is a fully formed, signed request descriptor.
type InitiationRequest struct {
	URL    string
	Method string // http.MethodGet (query string) or http.MethodPost (form)
	Params *ParamSet
}

// OrderRef returns the composite order reference from the built parameters,
// empty if unset.
func (r *InitiationRequest) OrderRef() string {
	for _, name := range []string{"order_id", "ORDER"} {
		if v, ok := r.Params.Get(name); ok {
			return v
		}
	}
	return ""
}

// RefundRequest asks the gateway to return money for a previously approved
// payment. RRN is the gateway transaction reference captured from the
// approval callback; the ecom variant requires it as INT_REF.
type RefundRequest struct {
	OriginalRef string // composite {orderId}_{paymentId} of the original charge
	RRN         string
	Amount      decimal.Decimal
	Currency    string
	Reason      string
}

// =====================================================
// CALLBACK PAYLOAD
// =====================================================

// CallbackPayload is the untrusted field set of an inbound gateway
// notification. Values are raw wire strings; nothing here may be believed
// before VerifyCallback passes.
type CallbackPayload map[string]string

// Get returns the value for name, empty string when absent.
func (p CallbackPayload) Get(name string) string {
	return p[name]
}

// Has reports whether name is present with a non-empty value.
func (p CallbackPayload) Has(name string) bool {
	return p[name] != ""
}
