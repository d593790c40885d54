package repository

import (
	"context"
	"ecommerce-shop/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindForBuyer(ctx context.Context, buyerID, orderID uint) (*model.Order, error)
	FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, buyerID uint, key string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]*model.Order, error)
	MarkEmailSent(ctx context.Context, orderID uint) error
	HasPurchased(ctx context.Context, buyerID, productID uint) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindForBuyer(ctx context.Context, buyerID, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "order", orderID)
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, buyerID uint, key string) (*model.Order, error) {
	var order model.Order
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("buyer_id = ? AND idempotency_key = ?", buyerID, key).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "order", key)
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByBuyer(ctx context.Context, buyerID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) MarkEmailSent(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("email_sent", true).Error
}

func (r *orderRepoImpl) HasPurchased(ctx context.Context, buyerID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.buyer_id = ? AND order_items.product_id = ?", buyerID, productID).
		Count(&count).Error

	return count > 0, err
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id")
}
