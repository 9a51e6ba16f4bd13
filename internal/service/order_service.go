package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		logger: logger,
		now:    time.Now,
	}
}

// MyOrders lists the user's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns the order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, p auth.Principal, id string) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if o.UserID != p.UserID && !p.IsAdmin() {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}

	now := s.now().UTC()
	o.Status = status
	if status == domain.OrderStatusDelivered && !o.IsDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", notFound(err, ErrOrderNotFound))
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", o.OrderID),
		zap.String("status", string(status)))
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return notFound(err, ErrOrderNotFound)
	}
	s.logger.Info("Order removed", zap.String("order_id", id))
	return nil
}
