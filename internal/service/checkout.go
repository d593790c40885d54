package service

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/cart"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/notify"
	"ecommerce-shop/internal/repository"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxIdempotencyKeyLength = 64

type CheckoutService interface {
	// Checkout turns the session cart into an order. A non-empty
	// idempotencyKey makes retries return the order created by the first
	// attempt.
	Checkout(ctx context.Context, actor Actor, sessionID, idempotencyKey string) (*model.Order, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	carts       cart.Store
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	notifier    notify.Notifier
	dispatcher  *notify.Dispatcher
	log         *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	carts cart.Store,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	notifier notify.Notifier,
	dispatcher *notify.Dispatcher,
	log *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		carts:       carts,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
		dispatcher:  dispatcher,
		log:         log,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, actor Actor, sessionID, idempotencyKey string) (*model.Order, error) {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > MaxIdempotencyKeyLength {
		return nil, apperr.Validation("idempotency_key", fmt.Sprintf("must be at most %d characters", MaxIdempotencyKeyLength))
	}

	if idempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(ctx, nil, actor.UserID, idempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("lookup idempotency key: %w", err)
		}
	}

	buyer, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(buyer.Email) == "" {
		return nil, apperr.Validation("email", "add an email address to your account before checking out")
	}

	// Taking the cart claims it for this request; a second submit of the
	// same session sees an empty cart.
	items, err := s.carts.Take(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("take cart: %w", err)
	}
	if len(items) == 0 {
		if idempotencyKey != "" {
			if existing, findErr := s.orderRepo.FindByIdempotencyKey(ctx, nil, actor.UserID, idempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		return nil, apperr.ErrEmptyCart
	}

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, total, err := s.validateLines(ctx, tx, items)
		if err != nil {
			return err
		}

		order = &model.Order{
			BuyerID: buyer.ID,
			Total:   total,
		}
		if idempotencyKey != "" {
			order.IdempotencyKey = &idempotencyKey
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		for _, item := range lines {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, lines); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		for _, item := range lines {
			ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return apperr.InvalidLine(item.ProductID, "not enough stock left")
			}
		}

		order.Items = make([]model.OrderItem, 0, len(lines))
		for _, item := range lines {
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		s.restoreCart(ctx, sessionID, items)
		if idempotencyKey != "" && !apperr.IsValidation(err) {
			// A concurrent request with the same key may have won the insert.
			if existing, findErr := s.orderRepo.FindByIdempotencyKey(ctx, nil, actor.UserID, idempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	s.sendConfirmation(buyer, order)
	return order, nil
}

// validateLines checks every cart entry against the catalog inside tx and
// returns the order item snapshots with their grand total.
func (s *checkoutServiceImpl) validateLines(ctx context.Context, tx *gorm.DB, items map[uint]int) ([]*model.OrderItem, decimal.Decimal, error) {
	ids := sortedIDs(items)
	products, err := s.productRepo.FindActiveMany(ctx, tx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]*model.OrderItem, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		qty := items[id]
		product, ok := byID[id]
		if !ok {
			return nil, decimal.Zero, apperr.InvalidLine(id, "product is no longer available")
		}
		if qty < 1 {
			return nil, decimal.Zero, apperr.InvalidLine(id, "quantity must be at least 1")
		}
		if qty > product.Stock {
			return nil, decimal.Zero, apperr.InvalidLine(id, fmt.Sprintf("only %d left in stock", product.Stock))
		}

		item := &model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    qty,
		}
		lines = append(lines, item)
		total = total.Add(item.LineTotal())
	}

	return lines, total, nil
}

func (s *checkoutServiceImpl) restoreCart(ctx context.Context, sessionID string, items map[uint]int) {
	if err := s.carts.Restore(context.WithoutCancel(ctx), sessionID, items); err != nil {
		s.log.Error("restore cart after failed checkout",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func (s *checkoutServiceImpl) sendConfirmation(buyer *model.User, order *model.Order) {
	confirmation := notify.OrderConfirmation{
		OrderID:    order.ID,
		BuyerName:  buyer.Username,
		BuyerEmail: buyer.Email,
		Total:      order.Total,
		PlacedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		confirmation.Lines = append(confirmation.Lines, notify.OrderLine{
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}

	s.dispatcher.Go(fmt.Sprintf("order-confirmation-%d", order.ID), func(ctx context.Context) error {
		if err := s.notifier.SendOrderConfirmation(ctx, confirmation); err != nil {
			return fmt.Errorf("send order confirmation: %w", err)
		}
		if err := s.orderRepo.MarkEmailSent(ctx, order.ID); err != nil {
			return fmt.Errorf("mark email sent: %w", err)
		}
		return nil
	})
}

