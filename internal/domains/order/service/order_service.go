package service

import (
	"context"

	"mebelshop-backend/internal/domains/order"
)

type orderService struct {
	repo order.Repository
}

// NewOrderService creates the order service.
func NewOrderService(repo order.Repository) order.Service {
	return &orderService{repo: repo}
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) MarkPaid(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, order.StatusPaid)
}

func (s *orderService) MarkRefunded(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, order.StatusRefunded)
}
