package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

type ProductRepository interface {
	// ListActive returns active products; specialOnly narrows to the
	// featured subset shown on the landing page.
	ListActive(ctx context.Context, specialOnly bool) ([]model.Product, error)
	// GetBySlug returns the active product with the slug, or nil.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	// ListSlugs returns the slugs of all active products.
	ListSlugs(ctx context.Context) ([]string, error)

	// Admin surface. These operate on the full set including inactive rows.
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	UpdateSlug(ctx context.Context, id int, slug string) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, name, slug, description, price, weight, grade, image,
	active, special, created_at, updated_at`

func (r *pgProductRepo) ListActive(ctx context.Context, specialOnly bool) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE active AND (NOT $1 OR special)
		 ORDER BY id`, specialOnly)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1 AND active`, slug)
	return scanProduct(row)
}

func (r *pgProductRepo) ListSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT slug FROM products WHERE active AND slug <> '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list product slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

func (r *pgProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, slug, description, price, weight, grade, image,
			active, special, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		product.Name, product.Slug, product.Description, product.Price,
		product.Weight, product.Grade, product.Image, product.Active, product.Special,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) UpdateSlug(ctx context.Context, id int, slug string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET slug = $2, updated_at = NOW() WHERE id = $1`, id, slug)
	if err != nil {
		return fmt.Errorf("update product slug: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name=$2, slug=$3, description=$4, price=$5, weight=$6, grade=$7,
		     image=$8, active=$9, special=$10, updated_at=NOW()
		 WHERE id=$1
		 RETURNING updated_at`,
		product.ID, product.Name, product.Slug, product.Description, product.Price,
		product.Weight, product.Grade, product.Image, product.Active, product.Special,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id int) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Weight, &p.Grade,
		&p.Image, &p.Active, &p.Special, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
