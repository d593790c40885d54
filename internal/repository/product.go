package repository

import (
	"context"
	"ecommerce-shop/internal/model"
	"strings"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID uint) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindActive(ctx context.Context, productID uint) (*model.Product, error)
	FindActiveMany(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*model.Product, error)
	ListByStore(ctx context.Context, storeID uint) ([]*model.Product, error)
	SearchActive(ctx context.Context, storeID uint, query string, limit, offset int) ([]*model.Product, int64, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int) (bool, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"is_active":   product.IsActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product", product.ID)
	}

	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.Review{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", productID).Delete(&model.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "product", productID)
		}
		return nil
	})
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, translate(err, "product", productID)
	}

	return &product, nil
}

func (r *productRepoImpl) FindActive(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		return nil, translate(err, "product", productID)
	}

	return &product, nil
}

func (r *productRepoImpl) FindActiveMany(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	if len(productIDs) == 0 {
		return products, nil
	}

	err := conn(r.db, tx).WithContext(ctx).
		Where("id IN ? AND is_active = ?", productIDs, true).
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListByStore(ctx context.Context, storeID uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) SearchActive(ctx context.Context, storeID uint, query string, limit, offset int) ([]*model.Product, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("store_id = ? AND is_active = ?", storeID, true)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*model.Product
	err := q.Order("name").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// DecrementStock takes quantity units of stock. It reports false without
// an error when the product is gone, inactive, or short on stock.
func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", productID, true, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
