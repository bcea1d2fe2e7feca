package jusan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
)

func refundRequest() gateway.RefundRequest {
	return gateway.RefundRequest{
		OriginalRef: "100_55",
		RRN:         "123456",
		Amount:      decimal.RequireFromString("1500.00"),
		Currency:    "KZT",
	}
}

// refundServer captures the form the adapter posts and replies with a fixed
// JSON body.
func refundServer(t *testing.T, response string, captured *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		if captured != nil {
			*captured = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
}

func TestInitiateRefund_EcomApproved(t *testing.T) {
	var form url.Values
	server := refundServer(t, `{"res_code":"0","res_desc":"Refund approved","rrn":"999888"}`, &form)
	defer server.Close()

	config := testConfig(VariantEcom)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	outcome, err := adapter.InitiateRefund(context.Background(), refundRequest())
	require.NoError(t, err)

	assert.True(t, outcome.RefundSucceeded())
	assert.Equal(t, "REFUND_100_55", outcome.InvoiceRef)
	assert.Equal(t, "999888", outcome.RRN)
	assert.Equal(t, "1500.00", outcome.Amount.StringFixed(2))

	// The posted form carries the original charge correlation and a
	// verifiable signature.
	assert.Equal(t, "100_55", form.Get("ORDER"))
	assert.Equal(t, "123456", form.Get("INT_REF"))
	assert.Equal(t, "1500.00", form.Get("AMOUNT"))
	claimed := form.Get("P_SIGN")
	require.NotEmpty(t, claimed)

	fields := map[string]string{}
	for name := range form {
		if name != "P_SIGN" {
			fields[name] = form.Get(name)
		}
	}
	assert.Equal(t, EcomScheme().SignRequest(fields, testSecret), claimed)
}

func TestInitiateRefund_EcomDeclined(t *testing.T) {
	server := refundServer(t, `{"res_code":"6","res_desc":"Original transaction not found"}`, nil)
	defer server.Close()

	config := testConfig(VariantEcom)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	outcome, err := adapter.InitiateRefund(context.Background(), refundRequest())
	require.NoError(t, err)

	assert.Equal(t, gateway.OutcomeRefundDeclined, outcome.Kind)
	assert.Equal(t, "6", outcome.Code)
	assert.Equal(t, "Original transaction not found", outcome.Description)
}

func TestInitiateRefund_EcomWithoutRRNNeverHitsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("transport must not be invoked when the RRN is missing")
	}))
	defer server.Close()

	config := testConfig(VariantEcom)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	req := refundRequest()
	req.RRN = ""
	outcome, err := adapter.InitiateRefund(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, model.ErrRRNNotFound)
}

func TestInitiateRefund_LegacyWithoutRRNAllowed(t *testing.T) {
	var form url.Values
	server := refundServer(t, `{"status":"success","code":"200","message":"Refund completed"}`, &form)
	defer server.Close()

	config := testConfig(VariantLegacy)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	req := refundRequest()
	req.RRN = ""
	outcome, err := adapter.InitiateRefund(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, outcome.RefundSucceeded())
	assert.Equal(t, "REFUND_100_55", outcome.InvoiceRef)
	assert.Equal(t, "Refund completed", outcome.Description)
	assert.Equal(t, "100_55", form.Get("original_order_id"))
	assert.Equal(t, "1500.00", form.Get("refund_amount"))
}

func TestInitiateRefund_LegacyDeclined(t *testing.T) {
	server := refundServer(t, `{"status":"error","code":"404","error":"Transaction not found"}`, nil)
	defer server.Close()

	config := testConfig(VariantLegacy)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	outcome, err := adapter.InitiateRefund(context.Background(), refundRequest())
	require.NoError(t, err)

	assert.Equal(t, gateway.OutcomeRefundDeclined, outcome.Kind)
	assert.Equal(t, "404", outcome.Code)
	assert.Equal(t, "Transaction not found", outcome.Description)
}

func TestInitiateRefund_MissingOriginalRef(t *testing.T) {
	adapter := newTestAdapter(t, testConfig(VariantEcom))

	req := refundRequest()
	req.OriginalRef = ""
	_, err := adapter.InitiateRefund(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrDataError)
}

func TestInitiateRefund_GatewayUnreachable(t *testing.T) {
	config := testConfig(VariantEcom)
	// Closed port: the dial fails immediately.
	config.RefundURL = "http://127.0.0.1:1"
	adapter := newTestAdapter(t, config)

	outcome, err := adapter.InitiateRefund(context.Background(), refundRequest())
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, model.ErrTransportFailure)
}

func TestInitiateRefund_MalformedResponse(t *testing.T) {
	server := refundServer(t, `<html>gateway error page</html>`, nil)
	defer server.Close()

	config := testConfig(VariantEcom)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	_, err := adapter.InitiateRefund(context.Background(), refundRequest())
	assert.ErrorIs(t, err, model.ErrTransportFailure)
}

func TestInitiateRefund_ContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	config := testConfig(VariantEcom)
	config.RefundURL = server.URL
	adapter := newTestAdapter(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := adapter.InitiateRefund(ctx, refundRequest())
	assert.ErrorIs(t, err, model.ErrTransportFailure)
}

func TestAdapterTimeoutBound(t *testing.T) {
	gw, err := NewAdapter(testConfig(VariantEcom))
	require.NoError(t, err)

	adapter := gw.(*Adapter)
	assert.Equal(t, defaultRefundTimeout, adapter.httpClient.Timeout)
}
