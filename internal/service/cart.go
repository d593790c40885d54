package service

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/cart"
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/repository"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CartService works on the session cart. Prices are never stored in the
// cart; every view joins against the live catalog.
type CartService interface {
	Add(ctx context.Context, actor Actor, sessionID string, productID uint, quantity int) error
	Remove(ctx context.Context, actor Actor, sessionID string, productID uint) error
	View(ctx context.Context, actor Actor, sessionID string) (*dto.CartView, error)
}

// MaxLineQuantity bounds the merged quantity of a single cart line.
const MaxLineQuantity = 1000

type cartServiceImpl struct {
	carts       cart.Store
	productRepo repository.ProductRepository
}

func NewCartService(carts cart.Store, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		carts:       carts,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) Add(ctx context.Context, actor Actor, sessionID string, productID uint, quantity int) error {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return err
	}
	if quantity < 1 {
		return apperr.Validation("quantity", "must be a positive integer")
	}
	if _, err := s.productRepo.FindActive(ctx, productID); err != nil {
		return err
	}
	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if quantity > MaxLineQuantity-items[productID] {
		return apperr.Validation("quantity", fmt.Sprintf("at most %d of one product per cart", MaxLineQuantity))
	}
	if err := s.carts.Add(ctx, sessionID, productID, quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, actor Actor, sessionID string, productID uint) error {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return err
	}
	if err := s.carts.Remove(ctx, sessionID, productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (s *cartServiceImpl) View(ctx context.Context, actor Actor, sessionID string) (*dto.CartView, error) {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}
	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	view := &dto.CartView{Lines: []dto.CartLine{}, Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	products, err := s.productRepo.FindActiveMany(ctx, nil, sortedIDs(items))
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	found := make(map[uint]bool, len(products))

	for _, p := range products {
		found[p.ID] = true
		qty := items[p.ID]
		line := dto.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.LineTotal)
	}
	sort.Slice(view.Lines, func(i, j int) bool { return view.Lines[i].ProductID < view.Lines[j].ProductID })

	for _, id := range sortedIDs(items) {
		if !found[id] {
			view.Unavailable = append(view.Unavailable, id)
		}
	}

	return view, nil
}

func sortedIDs(items map[uint]int) []uint {
	ids := make([]uint, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
