package service

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/repository"
	"fmt"
	"strings"
)

type ReviewService interface {
	AverageRating(ctx context.Context, storeID uint) (model.Rating, error)
	CreateReview(ctx context.Context, actor Actor, productID uint, req *dto.ReviewRequest) (*model.Review, error)
	ListReviews(ctx context.Context, productID uint) ([]*model.Review, error)
	VerifiedPurchase(ctx context.Context, buyerID, productID uint) (bool, error)
}

type reviewServiceImpl struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *reviewServiceImpl) AverageRating(ctx context.Context, storeID uint) (model.Rating, error) {
	sum, count, err := s.reviewRepo.StoreRatingStats(ctx, storeID)
	if err != nil {
		return model.Rating{}, fmt.Errorf("store rating: %w", err)
	}
	return model.NewRating(sum, count), nil
}

func (s *reviewServiceImpl) CreateReview(ctx context.Context, actor Actor, productID uint, req *dto.ReviewRequest) (*model.Review, error) {
	if err := RequireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating", "must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, apperr.Validation("comment", "is required")
	}

	if _, err := s.productRepo.FindActive(ctx, productID); err != nil {
		return nil, err
	}

	verified, err := s.VerifiedPurchase(ctx, actor.UserID, productID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID: productID,
		AuthorID:  actor.UserID,
		Rating:    req.Rating,
		Comment:   comment,
		Verified:  verified,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

func (s *reviewServiceImpl) ListReviews(ctx context.Context, productID uint) ([]*model.Review, error) {
	if _, err := s.productRepo.FindActive(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByProduct(ctx, productID)
}

// VerifiedPurchase reports whether any order of the buyer contains the product.
func (s *reviewServiceImpl) VerifiedPurchase(ctx context.Context, buyerID, productID uint) (bool, error) {
	ok, err := s.orderRepo.HasPurchased(ctx, buyerID, productID)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return ok, nil
}
