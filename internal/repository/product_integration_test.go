//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

func testProduct(name string, active, special bool) *model.Product {
	return &model.Product{
		Name:    name,
		Price:   "۱۰۰,۰۰۰ تومان",
		Weight:  "۱ گرم",
		Grade:   "ممتاز",
		Active:  active,
		Special: special,
	}
}

func TestProductRepo_CreateAndSlug(t *testing.T) {
	requirePool(t)
	cleanupTable(t, "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	p := testProduct("زعفران سرگل", true, false)
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.ID)

	slug := "زعفران-سرگل-1"
	require.NoError(t, repo.UpdateSlug(ctx, p.ID, slug))

	got, err := repo.GetBySlug(ctx, slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	slugs, err := repo.ListSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{slug}, slugs)
}

func TestProductRepo_ActiveAndSpecialFilters(t *testing.T) {
	requirePool(t)
	cleanupTable(t, "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProduct("سرگل", true, true)))
	require.NoError(t, repo.Create(ctx, testProduct("نگین", true, false)))
	require.NoError(t, repo.Create(ctx, testProduct("پوشال", false, true)))

	active, err := repo.ListActive(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	special, err := repo.ListActive(ctx, true)
	require.NoError(t, err)
	require.Len(t, special, 1)
	assert.Equal(t, "سرگل", special[0].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepo_UpdateAndDelete(t *testing.T) {
	requirePool(t)
	cleanupTable(t, "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	p := testProduct("زعفران نگین", true, false)
	require.NoError(t, repo.Create(ctx, p))

	p.Price = "۲۵۰,۰۰۰ تومان"
	p.Active = false
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "۲۵۰,۰۰۰ تومان", got.Price)
	assert.False(t, got.Active)

	require.NoError(t, repo.Delete(ctx, p.ID))
	missing, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
