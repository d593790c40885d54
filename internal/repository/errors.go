package repository

import (
	"ecommerce-shop/internal/apperr"
	"errors"

	"gorm.io/gorm"
)

func translate(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource, id)
	}
	return err
}

// conn prefers the caller's transaction when one is given.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
