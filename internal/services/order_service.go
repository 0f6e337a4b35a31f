package services

import (
	"context"
	"time"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
	"analytics-dashboard/pkg/utils"
)

type OrderService struct {
	orderRepo domain.OrderRepository
	eventPub  domain.EventPublisher
	log       logger.Logger
}

func NewOrderService(orderRepo domain.OrderRepository, eventPub domain.EventPublisher,
	log logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		eventPub:  eventPub,
		log:       log,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	now := time.Now()
	order.ID = utils.GenerateID("order")
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if order.OrderStatus == "" {
		order.OrderStatus = domain.OrderPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	event, err := domain.NewOrderEvent(order)
	if err == nil {
		err = s.eventPub.PublishDashboardEvent(ctx, event)
	}
	if err != nil {
		s.log.Error("Failed to publish new-order event", "order_id", order.ID, "error", err)
	}

	s.log.Info("Order recorded", "order_id", order.ID, "amount", order.TotalAmount)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orderRepo.GetOrder(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.ListOrders(ctx, limit, offset)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.log.Info("Order status updated", "order_id", orderID, "status", status)
	return nil
}
