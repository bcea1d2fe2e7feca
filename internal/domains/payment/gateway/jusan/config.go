package jusan

import (
	"fmt"
)

// =====================================================
// JUSAN CONFIGURATION
// =====================================================

// Config carries the merchant credentials and endpoints for one terminal.
// All fields are read-only after construction and safe for concurrent use.
type Config struct {
	Variant Variant // protocol dialect for this terminal

	MerchantID string // MID assigned by the bank
	TerminalID string // TID assigned by the bank

	// SharedSecret signs outbound requests and verifies inbound callbacks.
	// Leaving it empty disables both, by policy; treat that as a
	// configuration warning, not a feature.
	SharedSecret string

	PaymentURL string // initiation endpoint
	RefundURL  string // refund endpoint; differs per environment, never hardcoded

	Descriptor string // merchant name on the cardholder statement
	ClientID   string // optional, ecom dialect only
	Language   string // callback/redirect page language, e.g. "ru", "kz"

	ReturnURL string // default customer return URL after success
	CancelURL string // default customer return URL after cancel
	NotifyURL string // backend webhook URL
}

// DefaultDescriptor is used when the merchant has not configured one.
const DefaultDescriptor = "Mebelschik.kz"

// SupportedCurrencies lists the currencies the gateway settles.
var SupportedCurrencies = []string{"KZT", "USD", "EUR", "RUB"}

// DefaultCurrency applies when the order carries no currency.
const DefaultCurrency = "KZT"

// Validate checks that the credentials required to talk to the gateway are
// present. A missing shared secret is deliberately not an error here; see
// the Config.SharedSecret comment.
func (c *Config) Validate() error {
	if _, ok := SchemeFor(c.Variant); !ok {
		return fmt.Errorf("jusan: unknown protocol variant %q", c.Variant)
	}
	if c.MerchantID == "" {
		return fmt.Errorf("jusan: merchant id (MID) is required")
	}
	if c.TerminalID == "" {
		return fmt.Errorf("jusan: terminal id (TID) is required")
	}
	if c.PaymentURL == "" {
		return fmt.Errorf("jusan: payment URL is required")
	}
	if c.RefundURL == "" {
		return fmt.Errorf("jusan: refund URL is required")
	}
	return nil
}

// IsSupportedCurrency reports whether the gateway settles the given currency.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
