package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE PAYMENT REQUEST/RESPONSE
// =====================================================

type CreatePaymentRequest struct {
	OrderID  int64  `json:"order_id"`
	Language string `json:"language,omitempty"` // payment page language override
}

func (r CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Language, validation.In("ru", "kz", "en")),
	)
}

// FormField is one POST form field for the ecom dialect, in wire order.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreatePaymentResponse describes how the frontend should hand the customer
// to the gateway: a plain redirect for the legacy dialect, an auto-submitted
// form for the ecom one.
type CreatePaymentResponse struct {
	PaymentID  int64           `json:"payment_id"`
	InvoiceRef string          `json:"invoice_ref"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`

	Method      string      `json:"method"` // GET or POST
	RedirectURL string      `json:"redirect_url"`
	FormFields  []FormField `json:"form_fields,omitempty"`
}

// =====================================================
// PAYMENT STATUS RESPONSE
// =====================================================

type PaymentStatusResponse struct {
	PaymentID     int64           `json:"payment_id"`
	OrderID       int64           `json:"order_id"`
	InvoiceRef    string          `json:"invoice_ref"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	RRN           *string         `json:"rrn,omitempty"`
	StatusCode    *string         `json:"status_code,omitempty"`
	StatusMessage *string         `json:"status_message,omitempty"`
	InitiatedAt   time.Time       `json:"initiated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// =====================================================
// REFUND REQUEST/RESPONSE
// =====================================================

type RefundPaymentRequest struct {
	// Amount to refund; zero means the full original amount.
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

func (r RefundPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 255)),
	)
}

type RefundPaymentResponse struct {
	PaymentID  int64           `json:"payment_id"`
	RefundRef  string          `json:"refund_ref"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	RRN        *string         `json:"rrn,omitempty"`
	Message    string          `json:"message,omitempty"`
	RefundedAt *time.Time      `json:"refunded_at,omitempty"`
}
