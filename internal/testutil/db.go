// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"ecommerce-shop/internal/client"
	"ecommerce-shop/internal/config"
	"ecommerce-shop/internal/model"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated sqlite database in a per-test temp directory.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDatabase(config.Database{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "shop.db"),
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateStore(t *testing.T, db *gorm.DB, owner *model.User, name string) *model.Store {
	t.Helper()

	store := &model.Store{OwnerID: owner.ID, Name: name, Description: name + " description"}
	require.NoError(t, db.Create(store).Error)
	return store
}

func CreateProduct(t *testing.T, db *gorm.DB, store *model.Store, name, price string, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		StoreID:  store.ID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
