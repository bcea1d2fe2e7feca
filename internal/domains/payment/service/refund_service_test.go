package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mebelshop-backend/internal/domains/payment/gateway"
	gwmock "mebelshop-backend/internal/domains/payment/gateway/mock"
	"mebelshop-backend/internal/domains/payment/model"
)

// =====================================================
// FIXTURES
// =====================================================

type refundServiceFixture struct {
	paymentRepo *paymentRepoMock
	gateway     *gwmock.GatewayMock
	orders      *orderServiceMock
	service     RefundService
}

func newRefundServiceFixture() *refundServiceFixture {
	f := &refundServiceFixture{
		paymentRepo: &paymentRepoMock{},
		gateway:     &gwmock.GatewayMock{},
		orders:      &orderServiceMock{},
	}
	f.service = NewRefundService(f.paymentRepo, f.gateway, f.orders)
	return f
}

func capturedPayment() *model.PaymentTransaction {
	rrn := "123456"
	code := "0"
	msg := "Payment successful, RRN: 123456"
	return &model.PaymentTransaction{
		ID:            55,
		OrderID:       100,
		Variant:       model.VariantEcom,
		InvoiceRef:    "100_55",
		Amount:        decimal.RequireFromString("1500.00"),
		Currency:      "KZT",
		Status:        model.PaymentStatusSucceeded,
		RRN:           &rrn,
		StatusCode:    &code,
		StatusMessage: &msg,
	}
}

func refundApprovedOutcome() *gateway.PaymentOutcome {
	return &gateway.PaymentOutcome{
		Kind:        gateway.OutcomeRefundApproved,
		InvoiceRef:  "REFUND_100_55",
		RRN:         "999888",
		Amount:      decimal.RequireFromString("1500.00"),
		Currency:    "KZT",
		Code:        "0",
		Description: "Refund approved",
	}
}

// =====================================================
// TESTS
// =====================================================

func TestRefundPayment_Success(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(capturedPayment(), nil)
	f.gateway.On("InitiateRefund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
		return req.OriginalRef == "100_55" &&
			req.RRN == "123456" &&
			req.Amount.Equal(decimal.RequireFromString("1500.00")) &&
			req.Currency == "KZT"
	})).Return(refundApprovedOutcome(), nil)
	f.paymentRepo.On("MarkRefunded", ctx, int64(55), "REFUND_100_55", "Refund approved").Return(nil)
	f.orders.On("MarkRefunded", ctx, int64(100)).Return(nil)

	resp, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusRefunded, resp.Status)
	assert.Equal(t, "REFUND_100_55", resp.RefundRef)
	require.NotNil(t, resp.RRN)
	assert.Equal(t, "999888", *resp.RRN)
	require.NotNil(t, resp.RefundedAt)

	f.paymentRepo.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestRefundPayment_PartialAmount(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(capturedPayment(), nil)
	f.gateway.On("InitiateRefund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("500.00"))
	})).Return(refundApprovedOutcome(), nil)
	f.paymentRepo.On("MarkRefunded", ctx, int64(55), "REFUND_100_55", "Refund approved").Return(nil)
	f.orders.On("MarkRefunded", ctx, int64(100)).Return(nil)

	resp, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{
		Amount: decimal.RequireFromString("500.00"),
		Reason: "customer request",
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("500.00")))
}

func TestRefundPayment_AmountExceedsCaptured(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(capturedPayment(), nil)

	_, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{
		Amount: decimal.RequireFromString("2000.00"),
	})
	assert.ErrorIs(t, err, model.ErrDataError)

	f.gateway.AssertNotCalled(t, "InitiateRefund", mock.Anything, mock.Anything)
}

func TestRefundPayment_NotRefundableStatus(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	payment := capturedPayment()
	payment.Status = model.PaymentStatusInitiated
	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(payment, nil)

	_, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	assert.ErrorIs(t, err, model.ErrPaymentNotRefundable)
}

func TestRefundPayment_PaymentNotFound(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	f.paymentRepo.On("GetByID", ctx, int64(404)).Return(nil, model.NewPaymentNotFoundError(404))

	_, err := f.service.RefundPayment(ctx, 404, model.RefundPaymentRequest{})
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
}

func TestRefundPayment_GatewayDeclineBecomesDeclinedResponse(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	declined := &gateway.PaymentOutcome{
		Kind:        gateway.OutcomeRefundDeclined,
		InvoiceRef:  "REFUND_100_55",
		Code:        "6",
		Description: "Refund rejected by issuer",
	}
	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(capturedPayment(), nil)
	f.gateway.On("InitiateRefund", ctx, mock.Anything).Return(declined, nil)

	resp, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusSucceeded, resp.Status)
	assert.Equal(t, "Refund rejected by issuer", resp.Message)
	f.paymentRepo.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
}

func TestRefundPayment_TransportFailureBecomesDeclinedResponse(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(capturedPayment(), nil)
	f.gateway.On("InitiateRefund", ctx, mock.Anything).
		Return(nil, model.NewTransportFailureError(context.DeadlineExceeded))

	resp, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusSucceeded, resp.Status)
	assert.Equal(t, "Gateway unreachable, refund not performed", resp.Message)
	f.paymentRepo.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundPayment_MissingRRNErrorPassesThrough(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	payment := capturedPayment()
	payment.RRN = nil
	payment.StatusMessage = nil
	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(payment, nil)
	f.gateway.On("InitiateRefund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
		return req.RRN == ""
	})).Return(nil, model.NewMissingRRNError("100_55"))

	_, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	assert.ErrorIs(t, err, model.ErrRRNNotFound)
}

func TestRefundPayment_RecoversRRNFromStatusMessage(t *testing.T) {
	f := newRefundServiceFixture()
	ctx := context.Background()

	payment := capturedPayment()
	payment.RRN = nil
	f.paymentRepo.On("GetByID", ctx, int64(55)).Return(payment, nil)
	f.gateway.On("InitiateRefund", ctx, mock.MatchedBy(func(req gateway.RefundRequest) bool {
		return req.RRN == "123456"
	})).Return(refundApprovedOutcome(), nil)
	f.paymentRepo.On("MarkRefunded", ctx, int64(55), "REFUND_100_55", "Refund approved").Return(nil)
	f.orders.On("MarkRefunded", ctx, int64(100)).Return(nil)

	_, err := f.service.RefundPayment(ctx, 55, model.RefundPaymentRequest{})
	require.NoError(t, err)
	f.gateway.AssertExpectations(t)
}

func TestRecoverRRN(t *testing.T) {
	msg := "Payment successful, RRN: 987654"
	rrn := "111222"

	tests := []struct {
		name    string
		payment *model.PaymentTransaction
		want    string
	}{
		{"from column", &model.PaymentTransaction{RRN: &rrn}, "111222"},
		{"from status message", &model.PaymentTransaction{StatusMessage: &msg}, "987654"},
		{"column wins over message", &model.PaymentTransaction{RRN: &rrn, StatusMessage: &msg}, "111222"},
		{"nothing stored", &model.PaymentTransaction{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recoverRRN(tt.payment))
		})
	}
}
