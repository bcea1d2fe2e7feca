package jusan

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// INITIATION REQUEST BUILDER
// =====================================================

// BuildInitiationRequest maps a payment into the signed parameter set of the
// configured dialect. Field names are part of the wire contract and
// case-sensitive; insertion order follows the dialect's documented order, not
// the caller's. The computed signature is appended as the final parameter.
func (a *Adapter) BuildInitiationRequest(req gateway.PaymentRequest) (*gateway.InitiationRequest, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, model.NewDataError("payment amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	if !IsSupportedCurrency(currency) {
		return nil, model.NewDataError(fmt.Sprintf("unsupported currency: %s", currency))
	}

	descriptor := req.Descriptor
	if descriptor == "" {
		descriptor = a.config.Descriptor
	}
	if descriptor == "" {
		descriptor = DefaultDescriptor
	}

	orderRef := CompositeRef(req.OrderID, req.PaymentID)

	var params *gateway.ParamSet
	switch a.scheme.Variant {
	case VariantLegacy:
		params = a.buildLegacyParams(req, orderRef, currency, descriptor)
	case VariantEcom:
		params = a.buildEcomParams(req, orderRef, currency, descriptor)
	default:
		return nil, model.NewConfigurationError(fmt.Sprintf("unknown protocol variant: %s", a.scheme.Variant))
	}

	// Sign over everything collected so far and append as the last field.
	// With no shared secret configured the signature is skipped by policy.
	if sig := a.scheme.SignRequest(params.Map(), a.config.SharedSecret); sig != "" {
		params.Set(a.scheme.SignatureField, sig)
	}

	targetURL := a.config.PaymentURL
	if a.scheme.Method == http.MethodGet {
		targetURL = a.config.PaymentURL + "?" + params.Encode()
	}

	return &gateway.InitiationRequest{
		URL:    targetURL,
		Method: a.scheme.Method,
		Params: params,
	}, nil
}

// buildLegacyParams assembles the GET-redirect field set.
func (a *Adapter) buildLegacyParams(req gateway.PaymentRequest, orderRef, currency, descriptor string) *gateway.ParamSet {
	params := gateway.NewParamSet()
	params.Set("mid", a.config.MerchantID)
	params.Set("tid", a.config.TerminalID)
	params.Set("order_id", orderRef)
	params.Set("amount", req.Amount.StringFixed(2))
	params.Set("currency", currency)
	params.Set("descriptor", descriptor)
	params.Set("timestamp", a.now().Format("20060102150405"))
	params.Set("return_url", a.returnURL(req))
	params.Set("cancel_url", a.cancelURL(req))
	params.Set("notify_url", a.notifyURL(req))
	return params
}

// buildEcomParams assembles the POST-form field set. Optional fields are
// omitted from the wire; the signature string still accounts for them as
// empty positional slots.
func (a *Adapter) buildEcomParams(req gateway.PaymentRequest, orderRef, currency, descriptor string) *gateway.ParamSet {
	language := req.Language
	if language == "" {
		language = a.config.Language
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = a.config.ClientID
	}

	params := gateway.NewParamSet()
	params.Set("ORDER", orderRef)
	params.Set("AMOUNT", req.Amount.StringFixed(2))
	params.Set("CURRENCY", currency)
	params.Set("MERCHANT", a.config.MerchantID)
	params.Set("TERMINAL", a.config.TerminalID)
	params.Set("NONCE", a.nonce())
	params.Set("LANGUAGE", language)
	params.Set("DESC", descriptor)
	if req.CustomerEmail != "" {
		params.Set("EMAIL", req.CustomerEmail)
	}
	params.Set("BACKREF", a.returnURL(req))
	if req.OrderDescription != "" {
		params.Set("DESC_ORDER", req.OrderDescription)
	}
	if clientID != "" {
		params.Set("CLIENT_ID", clientID)
	}
	return params
}

func (a *Adapter) returnURL(req gateway.PaymentRequest) string {
	if req.ReturnURL != "" {
		return req.ReturnURL
	}
	return a.config.ReturnURL
}

func (a *Adapter) cancelURL(req gateway.PaymentRequest) string {
	if req.CancelURL != "" {
		return req.CancelURL
	}
	return a.config.CancelURL
}

// notifyURL appends the payment_id query parameter so the webhook handler can
// correlate the callback to a specific payment record even when the gateway
// echoes nothing else usable.
func (a *Adapter) notifyURL(req gateway.PaymentRequest) string {
	base := req.NotifyURL
	if base == "" {
		base = a.config.NotifyURL
	}
	if base == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spayment_id=%d", base, sep, req.PaymentID)
}

// CompositeRef builds the cross-system correlation key {orderId}_{paymentId}.
// The gateway echoes it back on callbacks; SplitRef recovers the parts.
func CompositeRef(orderID, paymentID int64) string {
	return fmt.Sprintf("%d_%d", orderID, paymentID)
}
