package jusan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// JUSAN ADAPTER
// =====================================================

// defaultRefundTimeout bounds the one blocking call the adapter makes. The
// gateway gives no SLA for the refund endpoint; 10s is the compromise between
// a slow acquirer and a hung worker.
const defaultRefundTimeout = 10 * time.Second

// Adapter implements gateway.JusanGateway for one configured terminal. It is
// stateless apart from read-only configuration and safe for concurrent use.
type Adapter struct {
	config     *Config
	scheme     *Scheme
	httpClient *http.Client

	// Injectable for deterministic tests.
	now   func() time.Time
	nonce func() string
}

// NewAdapter validates the terminal configuration and builds the adapter for
// its protocol variant.
func NewAdapter(config *Config) (gateway.JusanGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, model.NewConfigurationError(err.Error())
	}

	scheme, ok := SchemeFor(config.Variant)
	if !ok {
		return nil, model.NewConfigurationError(fmt.Sprintf("unknown protocol variant: %s", config.Variant))
	}

	return &Adapter{
		config: config,
		scheme: scheme,
		httpClient: &http.Client{
			Timeout: defaultRefundTimeout,
		},
		now:   time.Now,
		nonce: newNonce,
	}, nil
}

// newNonce returns a fresh 32-hex-char one-time value for signed requests.
func newNonce() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// =====================================================
// REFUND
// =====================================================

// InitiateRefund signs and dispatches a refund for a previously approved
// payment and translates the gateway's JSON response.
//
// The ecom dialect correlates refunds to the original charge by RRN; a
// missing RRN fails fast with a DataError before anything goes on the wire.
// Transport and parse failures come back as TransportFailure errors; the
// caller records them as a declined refund and may retry, the adapter never
// does.
func (a *Adapter) InitiateRefund(ctx context.Context, req gateway.RefundRequest) (*gateway.PaymentOutcome, error) {
	if req.OriginalRef == "" {
		return nil, model.NewDataError("refund requires the original order reference")
	}
	if a.scheme.Variant == VariantEcom && req.RRN == "" {
		return nil, model.NewMissingRRNError(req.OriginalRef)
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	var params *gateway.ParamSet
	if a.scheme.Variant == VariantEcom {
		params = a.buildEcomRefundParams(req, currency)
	} else {
		params = a.buildLegacyRefundParams(req, currency)
	}

	if sig := a.scheme.SignRequest(params.Map(), a.config.SharedSecret); sig != "" {
		params.Set(a.scheme.SignatureField, sig)
	}

	body, err := a.postForm(ctx, a.config.RefundURL, params)
	if err != nil {
		return nil, model.NewTransportFailureError(err)
	}

	return a.translateRefundResponse(req, body)
}

func (a *Adapter) buildLegacyRefundParams(req gateway.RefundRequest, currency string) *gateway.ParamSet {
	params := gateway.NewParamSet()
	params.Set("mid", a.config.MerchantID)
	params.Set("tid", a.config.TerminalID)
	params.Set("original_order_id", req.OriginalRef)
	params.Set("refund_amount", req.Amount.StringFixed(2))
	params.Set("currency", currency)
	params.Set("timestamp", a.now().Format("20060102150405"))
	return params
}

func (a *Adapter) buildEcomRefundParams(req gateway.RefundRequest, currency string) *gateway.ParamSet {
	desc := req.Reason
	if desc == "" {
		desc = "Refund " + req.OriginalRef
	}

	params := gateway.NewParamSet()
	params.Set("ORDER", req.OriginalRef)
	params.Set("AMOUNT", req.Amount.StringFixed(2))
	params.Set("CURRENCY", currency)
	params.Set("MERCHANT", a.config.MerchantID)
	params.Set("TERMINAL", a.config.TerminalID)
	params.Set("NONCE", a.nonce())
	params.Set("INT_REF", req.RRN)
	params.Set("DESC", desc)
	return params
}

// postForm dispatches a form-encoded POST and returns the raw response body.
func (a *Adapter) postForm(ctx context.Context, targetURL string, params *gateway.ParamSet) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create refund request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("refund call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refund response: %w", err)
	}
	return body, nil
}

// legacyRefundResponse is the JSON body of the legacy refund endpoint.
type legacyRefundResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Error   string `json:"error"`
}

// ecomRefundResponse is the JSON body of the ecom refund endpoint.
type ecomRefundResponse struct {
	ResCode string `json:"res_code"`
	ResDesc string `json:"res_desc"`
	RRN     string `json:"rrn"`
}

// translateRefundResponse maps the gateway's reply onto a refund outcome.
// The refund reference carries the REFUND_ prefix so the host's payment
// record distinguishes the reversal from the original charge.
func (a *Adapter) translateRefundResponse(req gateway.RefundRequest, body []byte) (*gateway.PaymentOutcome, error) {
	refundRef := "REFUND_" + req.OriginalRef

	if a.scheme.Variant == VariantEcom {
		var resp ecomRefundResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, model.NewTransportFailureError(fmt.Errorf("malformed refund response: %w", err))
		}
		if resp.ResCode == "0" {
			return &gateway.PaymentOutcome{
				Kind:        gateway.OutcomeRefundApproved,
				InvoiceRef:  refundRef,
				RRN:         resp.RRN,
				Amount:      req.Amount,
				Currency:    req.Currency,
				Code:        resp.ResCode,
				Description: resp.ResDesc,
			}, nil
		}
		return &gateway.PaymentOutcome{
			Kind:        gateway.OutcomeRefundDeclined,
			InvoiceRef:  refundRef,
			Code:        resp.ResCode,
			Description: refundDeclineReason(resp.ResDesc, ""),
		}, nil
	}

	var resp legacyRefundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, model.NewTransportFailureError(fmt.Errorf("malformed refund response: %w", err))
	}
	if resp.Status == "success" {
		return &gateway.PaymentOutcome{
			Kind:        gateway.OutcomeRefundApproved,
			InvoiceRef:  refundRef,
			Amount:      req.Amount,
			Currency:    req.Currency,
			Code:        orDefault(resp.Code, "200"),
			Description: orDefault(resp.Message, "Refund successful"),
		}, nil
	}
	return &gateway.PaymentOutcome{
		Kind:        gateway.OutcomeRefundDeclined,
		InvoiceRef:  refundRef,
		Code:        resp.Code,
		Description: refundDeclineReason(resp.Error, resp.Message),
	}, nil
}

func refundDeclineReason(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	if secondary != "" {
		return secondary
	}
	return "Unknown refund error"
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
