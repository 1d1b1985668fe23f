package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetByTrackingCode returns the most recently created order with the
	// given code, or nil when none matches.
	GetByTrackingCode(ctx context.Context, code string) (*model.Order, error)
	// GetLatestByPhone returns the most recently created order for the
	// phone number, or nil when none matches.
	GetLatestByPhone(ctx context.Context, phone string) (*model.Order, error)
	// List returns all orders newest first; a non-empty status filters.
	List(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderColumns = `id, tracking_code, first_name, last_name, phone, address, notes,
	items, total_price, discount_code, discount_amount, final_price, status,
	created_at, updated_at`

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.New()
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO orders (id, tracking_code, first_name, last_name, phone, address, notes,
			items, total_price, discount_code, discount_amount, final_price, status,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.TrackingCode, order.FirstName, order.LastName, order.Phone,
		order.Address, order.Notes, items, order.TotalPrice, order.DiscountCode,
		order.DiscountAmount, order.FinalPrice, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *pgOrderRepo) GetByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE tracking_code = $1
		 ORDER BY created_at DESC LIMIT 1`, code)
	return scanOrder(row)
}

func (r *pgOrderRepo) GetLatestByPhone(ctx context.Context, phone string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE phone = $1
		 ORDER BY created_at DESC LIMIT 1`, phone)
	return scanOrder(row)
}

func (r *pgOrderRepo) List(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	order := &model.Order{}
	var items []byte
	err := row.Scan(
		&order.ID, &order.TrackingCode, &order.FirstName, &order.LastName,
		&order.Phone, &order.Address, &order.Notes, &items, &order.TotalPrice,
		&order.DiscountCode, &order.DiscountAmount, &order.FinalPrice,
		&order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return order, nil
}
