package service

import (
	"context"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/repository"
	"fmt"
)

type OrderService interface {
	ListOrders(ctx context.Context, actor Actor) ([]*model.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uint) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, actor Actor) ([]*model.Order, error) {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByBuyer(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder only finds orders placed by the actor; anyone else's order is
// reported as not found.
func (s *orderServiceImpl) GetOrder(ctx context.Context, actor Actor, orderID uint) (*model.Order, error) {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}
	return s.orderRepo.FindForBuyer(ctx, actor.UserID, orderID)
}
