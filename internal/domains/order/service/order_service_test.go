package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mebelshop-backend/internal/domains/order"
)

type orderRepoMock struct {
	mock.Mock
}

func (m *orderRepoMock) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func TestGetOrder(t *testing.T) {
	repo := &orderRepoMock{}
	svc := NewOrderService(repo)
	ctx := context.Background()

	want := &order.Order{
		ID:       100,
		Total:    decimal.RequireFromString("1500.00"),
		Currency: "KZT",
		Status:   order.StatusPending,
	}
	repo.On("GetByID", ctx, int64(100)).Return(want, nil)

	got, err := svc.GetOrder(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := &orderRepoMock{}
	svc := NewOrderService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(404)).Return(nil, order.ErrOrderNotFound)

	_, err := svc.GetOrder(ctx, 404)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestMarkPaid(t *testing.T) {
	repo := &orderRepoMock{}
	svc := NewOrderService(repo)
	ctx := context.Background()

	repo.On("UpdateStatus", ctx, int64(100), order.StatusPaid).Return(nil)

	require.NoError(t, svc.MarkPaid(ctx, 100))
	repo.AssertExpectations(t)
}

func TestMarkRefunded(t *testing.T) {
	repo := &orderRepoMock{}
	svc := NewOrderService(repo)
	ctx := context.Background()

	repo.On("UpdateStatus", ctx, int64(100), order.StatusRefunded).Return(nil)

	require.NoError(t, svc.MarkRefunded(ctx, 100))
	repo.AssertExpectations(t)
}
