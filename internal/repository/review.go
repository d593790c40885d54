package repository

import (
	"context"
	"ecommerce-shop/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByProduct(ctx context.Context, productID uint) ([]*model.Review, error)
	StoreRatingStats(ctx context.Context, storeID uint) (sum int64, count int64, err error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{
		db: db,
	}
}

func (r *reviewRepoImpl) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepoImpl) ListByProduct(ctx context.Context, productID uint) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// StoreRatingStats returns the rating sum and review count over every
// product of the store. The mean is computed by the caller so rounding is
// the same on every database.
func (r *reviewRepoImpl) StoreRatingStats(ctx context.Context, storeID uint) (int64, int64, error) {
	var stats struct {
		Total int64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(SUM(reviews.rating), 0) AS total, COUNT(reviews.id) AS count").
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.store_id = ?", storeID).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}

	return stats.Total, stats.Count, nil
}
