package repository

import (
	"context"
	"ecommerce-shop/internal/model"
	"time"

	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, tokenID uint, usedAt time.Time) (bool, error)
}

type resetTokenRepoImpl struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepoImpl{
		db: db,
	}
}

func (r *resetTokenRepoImpl) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepoImpl) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var prt model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&prt).Error
	if err != nil {
		return nil, translate(err, "reset token", nil)
	}

	return &prt, nil
}

// MarkUsed stamps the token as used. It reports false when another request
// consumed the token first.
func (r *resetTokenRepoImpl) MarkUsed(ctx context.Context, tx *gorm.DB, tokenID uint, usedAt time.Time) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", tokenID).
		UpdateColumn("used_at", usedAt)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
