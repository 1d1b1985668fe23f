package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

type mockProductRepo struct {
	products map[int]*model.Product
	nextID   int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int]*model.Product), nextID: 1}
}

func (m *mockProductRepo) ListActive(_ context.Context, specialOnly bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.Active && (!specialOnly || p.Special) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) GetBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug && p.Active {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) ListSlugs(_ context.Context) ([]string, error) {
	var slugs []string
	for _, p := range m.products {
		if p.Active && p.Slug != "" {
			slugs = append(slugs, p.Slug)
		}
	}
	return slugs, nil
}

func (m *mockProductRepo) List(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int) (*model.Product, error) {
	if p, ok := m.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepo) UpdateSlug(_ context.Context, id int, slug string) error {
	if p, ok := m.products[id]; ok {
		p.Slug = slug
	}
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int) error {
	delete(m.products, id)
	return nil
}

type staticSource struct {
	products []model.Product
	err      error
}

func (s *staticSource) FetchProducts(context.Context) ([]model.Product, error) {
	return s.products, s.err
}

func seedProduct(repo *mockProductRepo, name string, active, special bool) *model.Product {
	p := &model.Product{Name: name, Price: "۱۰۰,۰۰۰ تومان", Active: active, Special: special}
	_ = repo.Create(context.Background(), p)
	p.Slug = name
	_ = repo.UpdateSlug(context.Background(), p.ID, name)
	return p
}

func TestCatalogService_ListActive(t *testing.T) {
	repo := newMockProductRepo()
	seedProduct(repo, "sargol", true, true)
	seedProduct(repo, "negin", true, false)
	seedProduct(repo, "old", false, false)

	svc := NewCatalogService(repo, nil, nil, testLogger())

	all, err := svc.ListActive(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2, "inactive products are hidden")

	special, err := svc.ListActive(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, special, 1)
	assert.Equal(t, "sargol", special[0].Name)
}

func TestCatalogService_GetBySlug(t *testing.T) {
	repo := newMockProductRepo()
	seedProduct(repo, "sargol", true, false)
	svc := NewCatalogService(repo, nil, nil, testLogger())

	p, err := svc.GetBySlug(context.Background(), "sargol")
	require.NoError(t, err)
	assert.Equal(t, "sargol", p.Name)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_CMSSourcePreferred(t *testing.T) {
	repo := newMockProductRepo()
	seedProduct(repo, "db-product", true, false)

	source := &staticSource{products: []model.Product{
		{ID: 10, Name: "cms-product", Slug: "cms-product", Active: true},
		{ID: 11, Name: "cms-hidden", Slug: "cms-hidden", Active: false},
	}}
	svc := NewCatalogService(repo, source, nil, testLogger())

	products, err := svc.ListActive(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "cms-product", products[0].Name)

	p, err := svc.GetBySlug(context.Background(), "cms-product")
	require.NoError(t, err)
	assert.Equal(t, 10, p.ID)

	_, err = svc.GetBySlug(context.Background(), "cms-hidden")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_CMSFailureFallsBack(t *testing.T) {
	repo := newMockProductRepo()
	seedProduct(repo, "db-product", true, false)

	source := &staticSource{err: errors.New("cms down")}
	svc := NewCatalogService(repo, source, nil, testLogger())

	products, err := svc.ListActive(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "db-product", products[0].Name)
}

func TestCatalogService_CreateDerivesSlug(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewCatalogService(repo, nil, nil, testLogger())

	p := &model.Product{Name: "زعفران سرگل", Price: "۱۰۰,۰۰۰ تومان", Active: true}
	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "زعفران-سرگل-1", p.Slug)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slug, stored.Slug)
}

func TestCatalogService_UpdateRenamesSlug(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewCatalogService(repo, nil, nil, testLogger())

	p := &model.Product{Name: "زعفران سرگل", Active: true}
	require.NoError(t, svc.Create(context.Background(), p))

	updated, err := svc.Update(context.Background(), p.ID, func(prod *model.Product) {
		prod.Name = "زعفران نگین"
	})
	require.NoError(t, err)
	assert.Equal(t, "زعفران-نگین-1", updated.Slug)

	_, err = svc.Update(context.Background(), 999, func(*model.Product) {})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
