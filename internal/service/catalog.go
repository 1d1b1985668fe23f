package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/repository"
	"github.com/chiiloo/saffron-store-api/internal/slug"
)

var ErrProductNotFound = errors.New("product not found")

const catalogCacheKey = "catalog:products"
const catalogCacheTTL = 60 * time.Second

// CatalogSource is the optional external system of record for products. When
// present it shadows the Postgres table for storefront reads.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
}

// CatalogService serves the storefront catalog, caching the active product
// list for a short window. Admin mutations operate on Postgres directly and
// drop the cache.
type CatalogService struct {
	productRepo repository.ProductRepository
	source      CatalogSource
	redisClient *redis.Client
	log         *slog.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, source CatalogSource, redisClient *redis.Client, log *slog.Logger) *CatalogService {
	return &CatalogService{productRepo: productRepo, source: source, redisClient: redisClient, log: log}
}

// ListActive returns the active catalog, special-only when asked.
func (s *CatalogService) ListActive(ctx context.Context, specialOnly bool) ([]model.Product, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	if !specialOnly {
		return products, nil
	}

	var special []model.Product
	for _, p := range products {
		if p.Special {
			special = append(special, p)
		}
	}
	return special, nil
}

// GetBySlug returns the active product with the given slug.
func (s *CatalogService) GetBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	if s.source != nil {
		products, err := s.activeProducts(ctx)
		if err != nil {
			return nil, err
		}
		for i := range products {
			if products[i].Slug == productSlug {
				return &products[i], nil
			}
		}
		return nil, ErrProductNotFound
	}

	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListSlugs returns the slugs of all active products.
func (s *CatalogService) ListSlugs(ctx context.Context) ([]string, error) {
	if s.source != nil {
		products, err := s.activeProducts(ctx)
		if err != nil {
			return nil, err
		}
		var slugs []string
		for _, p := range products {
			if p.Slug != "" {
				slugs = append(slugs, p.Slug)
			}
		}
		return slugs, nil
	}
	return s.productRepo.ListSlugs(ctx)
}

// activeProducts resolves the active catalog: short-lived cache first, then
// the CMS source when configured (falling back to Postgres on CMS failure),
// then Postgres.
func (s *CatalogService) activeProducts(ctx context.Context) ([]model.Product, error) {
	if cached := s.cachedProducts(ctx); cached != nil {
		return cached, nil
	}

	var products []model.Product
	if s.source != nil {
		fetched, err := s.source.FetchProducts(ctx)
		if err != nil {
			s.log.Warn("fetch catalog from CMS, falling back to database", "error", err)
		} else {
			for _, p := range fetched {
				if p.Active {
					products = append(products, p)
				}
			}
		}
	}

	if products == nil {
		var err error
		products, err = s.productRepo.ListActive(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("list active products: %w", err)
		}
	}

	s.cacheProducts(ctx, products)
	return products, nil
}

func (s *CatalogService) cachedProducts(ctx context.Context) []model.Product {
	if s.redisClient == nil {
		return nil
	}
	cached, err := s.redisClient.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var products []model.Product
	if json.Unmarshal(cached, &products) != nil {
		return nil
	}
	return products
}

func (s *CatalogService) cacheProducts(ctx context.Context, products []model.Product) {
	if s.redisClient == nil || len(products) == 0 {
		return
	}
	if data, err := json.Marshal(products); err == nil {
		s.redisClient.Set(ctx, catalogCacheKey, data, catalogCacheTTL)
	}
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, catalogCacheKey)
	}
}

// --- Admin surface ---

func (s *CatalogService) ListAll(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx)
}

// Create inserts a product and derives its Persian-aware slug from the name
// and the assigned ID.
func (s *CatalogService) Create(ctx context.Context, product *model.Product) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	product.Slug = slug.ForProduct(product.Name, product.ID)
	if err := s.productRepo.UpdateSlug(ctx, product.ID, product.Slug); err != nil {
		return fmt.Errorf("set product slug: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, id int, apply func(*model.Product)) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	name := product.Name
	apply(product)
	if product.Name != name {
		product.Slug = slug.ForProduct(product.Name, product.ID)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}
