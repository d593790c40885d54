package service

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errDuplicateStoreName = apperr.Validation("name", "you already have a store with this name")

const (
	StorePageSize   = 20
	ProductPageSize = 6
)

type CatalogService interface {
	ListStores(ctx context.Context, query string, page int) (*dto.StoreList, error)
	GetStoreDetail(ctx context.Context, storeID uint, query string, page int) (*dto.StoreDetail, error)
	GetProduct(ctx context.Context, productID uint) (*dto.ProductDetail, error)

	ListMyStores(ctx context.Context, actor Actor) ([]*repository.StoreSummary, error)
	CreateStore(ctx context.Context, actor Actor, req *dto.StoreRequest) (*model.Store, error)
	UpdateStore(ctx context.Context, actor Actor, storeID uint, req *dto.StoreRequest) (*model.Store, error)
	DeleteStore(ctx context.Context, actor Actor, storeID uint) error

	ListStoreProducts(ctx context.Context, actor Actor, storeID uint) ([]*model.Product, error)
	CreateProduct(ctx context.Context, actor Actor, storeID uint, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, storeID, productID uint, req *dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, storeID, productID uint) error
}

type catalogServiceImpl struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	reviews     ReviewService
}

func NewCatalogService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	reviews ReviewService,
) CatalogService {
	return &catalogServiceImpl{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		reviews:     reviews,
	}
}

func (s *catalogServiceImpl) ListStores(ctx context.Context, query string, page int) (*dto.StoreList, error) {
	page = normalizePage(page)
	stores, total, err := s.storeRepo.List(ctx, query, StorePageSize, (page-1)*StorePageSize)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return &dto.StoreList{
		Stores: stores,
		Page:   newPage(page, StorePageSize, total),
	}, nil
}

func (s *catalogServiceImpl) GetStoreDetail(ctx context.Context, storeID uint, query string, page int) (*dto.StoreDetail, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	page = normalizePage(page)
	products, total, err := s.productRepo.SearchActive(ctx, storeID, query, ProductPageSize, (page-1)*ProductPageSize)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	rating, err := s.reviews.AverageRating(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &dto.StoreDetail{
		Store:    store,
		Products: products,
		Page:     newPage(page, ProductPageSize, total),
		Rating:   rating,
	}, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID uint) (*dto.ProductDetail, error) {
	product, err := s.productRepo.FindActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &dto.ProductDetail{Product: product, Reviews: reviews}, nil
}

func (s *catalogServiceImpl) ListMyStores(ctx context.Context, actor Actor) ([]*repository.StoreSummary, error) {
	if err := RequireRole(actor, model.RoleVendor); err != nil {
		return nil, err
	}
	return s.storeRepo.ListByOwner(ctx, actor.UserID)
}

func (s *catalogServiceImpl) CreateStore(ctx context.Context, actor Actor, req *dto.StoreRequest) (*model.Store, error) {
	if err := RequireRole(actor, model.RoleVendor); err != nil {
		return nil, err
	}
	if err := validateStore(req); err != nil {
		return nil, err
	}

	store := &model.Store{
		OwnerID:     actor.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateStoreName
		}
		return nil, fmt.Errorf("create store: %w", err)
	}

	return store, nil
}

func (s *catalogServiceImpl) UpdateStore(ctx context.Context, actor Actor, storeID uint, req *dto.StoreRequest) (*model.Store, error) {
	store, err := s.ownedStore(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}
	if err := validateStore(req); err != nil {
		return nil, err
	}

	store.Name = strings.TrimSpace(req.Name)
	store.Description = req.Description
	if err := s.storeRepo.Update(ctx, store); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateStoreName
		}
		return nil, fmt.Errorf("update store: %w", err)
	}

	return store, nil
}

func (s *catalogServiceImpl) DeleteStore(ctx context.Context, actor Actor, storeID uint) error {
	if _, err := s.ownedStore(ctx, actor, storeID); err != nil {
		return err
	}
	return s.storeRepo.Delete(ctx, storeID)
}

func (s *catalogServiceImpl) ListStoreProducts(ctx context.Context, actor Actor, storeID uint) ([]*model.Product, error) {
	if _, err := s.ownedStore(ctx, actor, storeID); err != nil {
		return nil, err
	}
	return s.productRepo.ListByStore(ctx, storeID)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, actor Actor, storeID uint, req *dto.ProductRequest) (*model.Product, error) {
	store, err := s.ownedStore(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		StoreID:     store.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, actor Actor, storeID, productID uint, req *dto.ProductRequest) (*model.Product, error) {
	product, err := s.ownedProduct(ctx, actor, storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Price = req.Price.Round(2)
	product.Stock = req.Stock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, actor Actor, storeID, productID uint) error {
	if _, err := s.ownedProduct(ctx, actor, storeID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogServiceImpl) ownedStore(ctx context.Context, actor Actor, storeID uint) (*model.Store, error) {
	if err := RequireRole(actor, model.RoleVendor); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeStoreOwner(actor, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *catalogServiceImpl) ownedProduct(ctx context.Context, actor Actor, storeID, productID uint) (*model.Product, error) {
	store, err := s.ownedStore(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != store.ID {
		return nil, apperr.NotFound("product", productID)
	}

	return product, nil
}

func validateStore(req *dto.StoreRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name", "is required")
	}
	return nil
}

func validateProduct(req *dto.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name", "is required")
	}
	if req.Price.IsNegative() {
		return apperr.Validation("price", "must not be negative")
	}
	if req.Price.GreaterThanOrEqual(decimal.New(1, 8)) {
		return apperr.Validation("price", "must be below 100000000")
	}
	if req.Stock < 0 {
		return apperr.Validation("stock", "must not be negative")
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func newPage(number, size int, total int64) dto.Page {
	pages := int((total + int64(size) - 1) / int64(size))
	if pages == 0 {
		pages = 1
	}
	return dto.Page{Number: number, Size: size, Total: total, TotalPages: pages}
}
