package repository

import (
	"context"
	"ecommerce-shop/internal/model"
	"strings"

	"gorm.io/gorm"
)

type StoreSummary struct {
	model.Store
	ProductCount int64 `json:"product_count"`
}

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	Update(ctx context.Context, store *model.Store) error
	Delete(ctx context.Context, storeID uint) error
	FindByID(ctx context.Context, storeID uint) (*model.Store, error)
	List(ctx context.Context, query string, limit, offset int) ([]*model.Store, int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*StoreSummary, error)
}

type storeRepoImpl struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepoImpl{
		db: db,
	}
}

func (r *storeRepoImpl) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepoImpl) Update(ctx context.Context, store *model.Store) error {
	result := r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", store.ID).
		Updates(map[string]interface{}{
			"name":        store.Name,
			"description": store.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "store", store.ID)
	}

	return nil
}

// Delete removes the store together with its products and their reviews.
// Order items keep their snapshots.
func (r *storeRepoImpl) Delete(ctx context.Context, storeID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := tx.Model(&model.Product{}).Select("id").Where("store_id = ?", storeID)

		if err := tx.Where("product_id IN (?)", products).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", storeID).Delete(&model.Product{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", storeID).Delete(&model.Store{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "store", storeID)
		}
		return nil
	})
}

func (r *storeRepoImpl) FindByID(ctx context.Context, storeID uint) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("id = ?", storeID).
		First(&store).Error
	if err != nil {
		return nil, translate(err, "store", storeID)
	}

	return &store, nil
}

func (r *storeRepoImpl) List(ctx context.Context, query string, limit, offset int) ([]*model.Store, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Store{})
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stores []*model.Store
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&stores).Error
	if err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

func (r *storeRepoImpl) ListByOwner(ctx context.Context, ownerID uint) ([]*StoreSummary, error) {
	var stores []*StoreSummary
	err := r.db.WithContext(ctx).
		Model(&model.Store{}).
		Select("stores.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.store_id = stores.id").
		Where("stores.owner_id = ?", ownerID).
		Group("stores.id").
		Order("stores.created_at DESC").
		Order("stores.id DESC").
		Scan(&stores).Error
	if err != nil {
		return nil, err
	}

	return stores, nil
}
