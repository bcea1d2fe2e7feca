package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrConfiguration     = errors.New("payment system misconfigured")
	ErrSignatureMismatch = errors.New("invalid callback signature")
	ErrGatewayDeclined   = errors.New("payment declined by gateway")
	ErrTransportFailure  = errors.New("gateway transport failure")
	ErrDataError         = errors.New("invalid payment data")
	ErrRRNNotFound       = errors.New("transaction reference (RRN) not found")

	ErrPaymentNotFound          = errors.New("payment transaction not found")
	ErrPaymentNotRefundable     = errors.New("payment is not refundable")
	ErrCallbackAlreadyProcessed = errors.New("callback already processed")
	ErrOrderNotFound            = errors.New("order not found")
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeConfiguration     = "PAY001"
	ErrCodeSignatureMismatch = "PAY002"
	ErrCodeGatewayDeclined   = "PAY003"
	ErrCodeTransportFailure  = "PAY004"
	ErrCodeDataError         = "PAY005"
	ErrCodeRRNNotFound       = "PAY006"
	ErrCodePaymentNotFound   = "PAY007"
	ErrCodeNotRefundable     = "PAY008"
	ErrCodeCallbackProcessed = "PAY009"
	ErrCodeInternalError     = "PAY010"
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

// PaymentError carries an internal code alongside the wrapped sentinel so
// handlers can map it to an HTTP status and admins can grep logs by code.
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error.
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

// NewConfigurationError flags missing or inconsistent merchant credentials.
// Surfaced to the merchant admin, never to the customer.
func NewConfigurationError(detail string) *PaymentError {
	return NewPaymentError(ErrCodeConfiguration, detail, ErrConfiguration)
}

// NewSignatureMismatchError flags a callback whose digest did not verify.
// The request is rejected and logged; the customer sees a generic failure.
func NewSignatureMismatchError() *PaymentError {
	return NewPaymentError(
		ErrCodeSignatureMismatch,
		"Callback signature verification failed - possible forgery",
		ErrSignatureMismatch,
	)
}

// NewGatewayDeclinedError carries the gateway's own code and message through
// verbatim.
func NewGatewayDeclinedError(code, message string) *PaymentError {
	return NewPaymentError(
		ErrCodeGatewayDeclined,
		fmt.Sprintf("Gateway declined [%s]: %s", code, message),
		ErrGatewayDeclined,
	)
}

// NewTransportFailureError wraps a network, timeout or malformed-body failure
// on the refund call. The caller may retry; the adapter never does.
func NewTransportFailureError(err error) *PaymentError {
	return &PaymentError{
		Code:    ErrCodeTransportFailure,
		Message: "Refund transport failure",
		Err:     fmt.Errorf("%w: %w", ErrTransportFailure, err),
	}
}

// NewDataError flags invalid input caught before any network call.
func NewDataError(detail string) *PaymentError {
	return NewPaymentError(ErrCodeDataError, detail, ErrDataError)
}

// NewMissingRRNError fails a refund whose original payment carries no
// recoverable transaction reference.
func NewMissingRRNError(ref string) *PaymentError {
	return NewPaymentError(
		ErrCodeRRNNotFound,
		fmt.Sprintf("No transaction reference (RRN) recoverable for payment %s", ref),
		ErrRRNNotFound,
	)
}

func NewPaymentNotFoundError(paymentID int64) *PaymentError {
	return NewPaymentError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment transaction not found: %d", paymentID),
		ErrPaymentNotFound,
	)
}

func NewNotRefundableError(status string) *PaymentError {
	return NewPaymentError(
		ErrCodeNotRefundable,
		fmt.Sprintf("Only succeeded payments can be refunded, current status: %s", status),
		ErrPaymentNotRefundable,
	)
}

func NewCallbackAlreadyProcessedError() *PaymentError {
	return NewPaymentError(
		ErrCodeCallbackProcessed,
		"Callback already processed (idempotent)",
		ErrCallbackAlreadyProcessed,
	)
}
