package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chiiloo/saffron-store-api/internal/dto"
	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/notify"
	"github.com/chiiloo/saffron-store-api/internal/pricing"
	"github.com/chiiloo/saffron-store-api/internal/repository"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderService handles checkout, customer-facing tracking and the admin
// order listing.
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	cartSvc   *CartService
	publisher notify.Publisher
	log       *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	cartSvc *CartService,
	publisher notify.Publisher,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		cartSvc:   cartSvc,
		publisher: publisher,
		log:       log,
	}
}

// GenerateTrackingCode draws a uniform random integer in [10^9, 10^10-1] and
// renders it as a 10-digit decimal string. Collisions are not checked: the
// space holds 9×10^9 values and the original system accepts the risk.
func GenerateTrackingCode() string {
	const low, width = 1_000_000_000, 9_000_000_000
	return fmt.Sprintf("%d", low+rand.Int63n(width))
}

// Submit turns the session cart into a persisted order. The cart is cleared
// only after the insert succeeds; a persistence failure leaves it untouched.
func (s *OrderService) Submit(ctx context.Context, cartID uuid.UUID, req dto.CheckoutRequest) (*model.Order, error) {
	cart, err := s.cartRepo.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Weight:    ci.Weight,
			Grade:     ci.Grade,
			Quantity:  ci.Quantity,
			Price:     ci.Price,
		})
	}

	summary := s.cartSvc.Summarize(cart, req.DiscountCode)

	order := &model.Order{
		TrackingCode:   GenerateTrackingCode(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		Notes:          strings.TrimSpace(req.Notes),
		Items:          items,
		TotalPrice:     summary.TotalPrice,
		DiscountAmount: summary.DiscountAmount,
		FinalPrice:     summary.FinalPrice,
		Status:         model.OrderStatusPending,
	}
	if summary.DiscountAmount > 0 {
		order.DiscountCode = strings.TrimSpace(req.DiscountCode)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Best effort: a failed announcement never fails the order.
	if err := s.publisher.OrderSubmitted(ctx, order); err != nil {
		s.log.Warn("publish order notification", "tracking_code", order.TrackingCode, "error", err)
	}

	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		s.log.Warn("clear cart after checkout", "cart_id", cartID, "error", err)
	}

	return order, nil
}

// TrackByCode finds the newest order with the tracking code. Codes are
// numeric but lookups normalize case anyway, matching the original search.
func (s *OrderService) TrackByCode(ctx context.Context, code string) (*model.Order, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	order, err := s.orderRepo.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get order by tracking code: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// TrackByPhone finds the newest order for the phone number.
func (s *OrderService) TrackByPhone(ctx context.Context, phone string) (*model.Order, error) {
	order, err := s.orderRepo.GetLatestByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, fmt.Errorf("get order by phone: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns all orders newest first, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.List(ctx, status)
}

// UpdateStatus moves an order to any of the six statuses; transitions are
// unrestricted and concurrent edits resolve as last write wins.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if isNoRows(err) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// FormatFinalPrice renders the order's final price for display.
func FormatFinalPrice(order *model.Order) string {
	return pricing.FormatAmount(order.FinalPrice)
}

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
