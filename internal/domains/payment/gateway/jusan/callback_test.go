package jusan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

// signedEcomCallback builds an authentic ecom notification: the signature is
// computed exactly the way the gateway would compute it.
func signedEcomCallback(fields map[string]string) gateway.CallbackPayload {
	payload := gateway.CallbackPayload{}
	for k, v := range fields {
		payload[k] = v
	}
	payload["sign"] = EcomScheme().SignCallback(payload, testSecret)
	return payload
}

func signedLegacyCallback(fields map[string]string) gateway.CallbackPayload {
	payload := gateway.CallbackPayload{}
	for k, v := range fields {
		payload[k] = v
	}
	payload["signature"] = LegacyScheme().SignCallback(payload, testSecret)
	return payload
}

func TestProcessCallback_EcomApproved(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	payload := signedEcomCallback(map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "0",
		"rrn":      "123456",
	})

	outcome, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.True(t, outcome.Approved())
	assert.Equal(t, "100_55", outcome.InvoiceRef)
	assert.Equal(t, "123456", outcome.RRN)
	assert.Equal(t, "KZT", outcome.Currency)
	assert.Equal(t, "1500.00", outcome.Amount.StringFixed(2))
}

func TestProcessCallback_EcomDeclinedPassesMessageVerbatim(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	payload := signedEcomCallback(map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "1",
		"res_desc": "insufficient funds",
	})

	outcome, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.Equal(t, gateway.OutcomeDeclined, outcome.Kind)
	assert.Equal(t, "1", outcome.Code)
	assert.Equal(t, "insufficient funds", outcome.Description)
}

func TestProcessCallback_DeclineWithoutMessageGetsFallback(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	payload := signedEcomCallback(map[string]string{
		"order":    "100_55",
		"res_code": "5",
	})

	outcome, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.Equal(t, gateway.OutcomeDeclined, outcome.Kind)
	assert.Equal(t, "Payment failed", outcome.Description)
}

func TestProcessCallback_TamperedPayloadRejected(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	payload := signedEcomCallback(map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "1",
	})
	// Flip the decline to an approval after signing.
	payload["res_code"] = "0"

	outcome, err := adapter.ProcessCallback(payload)
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, model.ErrSignatureMismatch)
}

func TestProcessCallback_MissingSignatureRejected(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	outcome, err := adapter.ProcessCallback(gateway.CallbackPayload{
		"order":    "100_55",
		"res_code": "0",
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, model.ErrSignatureMismatch)
}

func TestProcessCallback_EmptySecretAcceptsUnsigned(t *testing.T) {
	config := testConfig(VariantEcom)
	config.SharedSecret = ""
	adapter := newTestAdapter(t, config)

	outcome, err := adapter.ProcessCallback(gateway.CallbackPayload{
		"order":    "100_55",
		"res_code": "0",
		"rrn":      "123456",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Approved())
}

func TestProcessCallback_Idempotent(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	payload := signedEcomCallback(map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "0",
		"rrn":      "123456",
	})

	first, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)
	second, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProcessCallback_LegacyApproved(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantLegacy))

	payload := signedLegacyCallback(map[string]string{
		"mid":            "MID001",
		"order_id":       "100_55",
		"transaction_id": "100_55",
		"amount":         "1500.00",
		"currency":       "KZT",
		"status":         "success",
		"rrn":            "654321",
	})

	outcome, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.True(t, outcome.Approved())
	assert.Equal(t, "100_55", outcome.InvoiceRef)
	assert.Equal(t, "654321", outcome.RRN)
}

func TestProcessCallback_LegacyDeclined(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantLegacy))

	payload := signedLegacyCallback(map[string]string{
		"mid":           "MID001",
		"order_id":      "100_55",
		"status":        "declined",
		"error_message": "card expired",
	})

	outcome, err := adapter.ProcessCallback(payload)
	require.NoError(t, err)

	assert.Equal(t, gateway.OutcomeDeclined, outcome.Kind)
	assert.Equal(t, "card expired", outcome.Description)
}

func TestPaymentIDFromCallback(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	// Preferred path: composite reference.
	id, ok := adapter.PaymentIDFromCallback(gateway.CallbackPayload{"order": "100_55"})
	require.True(t, ok)
	assert.Equal(t, int64(55), id)

	// Side channel: payment_id from the notify URL.
	id, ok = adapter.PaymentIDFromCallback(gateway.CallbackPayload{"payment_id": "77"})
	require.True(t, ok)
	assert.Equal(t, int64(77), id)

	// Nothing usable.
	_, ok = adapter.PaymentIDFromCallback(gateway.CallbackPayload{"order": "garbage"})
	assert.False(t, ok)
}

func TestIsGatewayCallback(t *testing.T) {
	ecom := newTestAdapter(t, testConfig(VariantEcom))
	assert.True(t, ecom.IsGatewayCallback(gateway.CallbackPayload{"order": "1_1", "sign": "ab"}))
	assert.False(t, ecom.IsGatewayCallback(gateway.CallbackPayload{"order": "1_1"}))
	assert.False(t, ecom.IsGatewayCallback(gateway.CallbackPayload{"foo": "bar"}))

	legacy := newTestAdapter(t, testConfig(VariantLegacy))
	assert.True(t, legacy.IsGatewayCallback(gateway.CallbackPayload{"mid": "M", "order_id": "1_1"}))
	assert.False(t, legacy.IsGatewayCallback(gateway.CallbackPayload{"order_id": "1_1"}))
}
