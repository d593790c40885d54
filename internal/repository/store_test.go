package repository_test

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/repository"
	"ecommerce-shop/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_ListByOwnerCountsProducts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	vendor := testutil.CreateUser(t, db, "vera", model.RoleVendor)
	other := testutil.CreateUser(t, db, "otto", model.RoleVendor)
	books := testutil.CreateStore(t, db, vendor, "Books")
	testutil.CreateStore(t, db, vendor, "Empty")
	testutil.CreateStore(t, db, other, "Elsewhere")
	testutil.CreateProduct(t, db, books, "Novel", "9.99", 3)
	testutil.CreateProduct(t, db, books, "Atlas", "25.00", 1)

	summaries, err := repo.ListByOwner(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[string]int64{}
	for _, s := range summaries {
		counts[s.Name] = s.ProductCount
	}
	assert.Equal(t, map[string]int64{"Books": 2, "Empty": 0}, counts)
}

func TestStoreRepository_ListSearchAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	vendor := testutil.CreateUser(t, db, "vera", model.RoleVendor)
	for _, name := range []string{"Garden Shop", "Book Nook", "garden tools"} {
		testutil.CreateStore(t, db, vendor, name)
	}

	stores, total, err := repo.List(ctx, "GARDEN", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, stores, 1)
	assert.Equal(t, "garden tools", stores[0].Name, "newest first")

	stores, total, err = repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, stores, 3)
}

func TestStoreRepository_DeleteCascadesToProductsAndReviews(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	vendor := testutil.CreateUser(t, db, "vera", model.RoleVendor)
	buyer := testutil.CreateUser(t, db, "bob", model.RoleBuyer)
	store := testutil.CreateStore(t, db, vendor, "Books")
	product := testutil.CreateProduct(t, db, store, "Novel", "9.99", 3)
	require.NoError(t, db.Create(&model.Review{ProductID: product.ID, AuthorID: buyer.ID, Rating: 4, Comment: "ok"}).Error)

	require.NoError(t, repo.Delete(ctx, store.ID))

	var products, reviews int64
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.Review{}).Count(&reviews)
	assert.Zero(t, products)
	assert.Zero(t, reviews)

	_, err := repo.FindByID(ctx, store.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = repo.Delete(ctx, store.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestStoreRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	vendor := testutil.CreateUser(t, db, "vera", model.RoleVendor)
	store := testutil.CreateStore(t, db, vendor, "Books")

	store.Name = "Rare Books"
	store.Description = ""
	require.NoError(t, repo.Update(ctx, store))

	got, err := repo.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rare Books", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, vendor.ID, got.OwnerID)
}
