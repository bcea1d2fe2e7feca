package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mebelshop-backend/internal/domains/payment/gateway"
)

// GatewayMock is a testify mock of gateway.JusanGateway for service tests.
type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) BuildInitiationRequest(req gateway.PaymentRequest) (*gateway.InitiationRequest, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.InitiationRequest), args.Error(1)
}

func (m *GatewayMock) VerifyCallback(payload gateway.CallbackPayload) bool {
	args := m.Called(payload)
	return args.Bool(0)
}

func (m *GatewayMock) ProcessCallback(payload gateway.CallbackPayload) (*gateway.PaymentOutcome, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentOutcome), args.Error(1)
}

func (m *GatewayMock) InitiateRefund(ctx context.Context, req gateway.RefundRequest) (*gateway.PaymentOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentOutcome), args.Error(1)
}

func (m *GatewayMock) PaymentIDFromCallback(payload gateway.CallbackPayload) (int64, bool) {
	args := m.Called(payload)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *GatewayMock) IsGatewayCallback(payload gateway.CallbackPayload) bool {
	args := m.Called(payload)
	return args.Bool(0)
}
