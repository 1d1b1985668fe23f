package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiiloo/saffron-store-api/internal/dto"
	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/notify"
)

type mockOrderRepo struct {
	orders    map[uuid.UUID]*model.Order
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) GetByTrackingCode(_ context.Context, code string) (*model.Order, error) {
	var latest *model.Order
	for _, o := range m.orders {
		if o.TrackingCode == code && (latest == nil || o.CreatedAt.After(latest.CreatedAt)) {
			latest = o
		}
	}
	return latest, nil
}

func (m *mockOrderRepo) GetLatestByPhone(_ context.Context, phone string) (*model.Order, error) {
	var latest *model.Order
	for _, o := range m.orders {
		if o.Phone == phone && (latest == nil || o.CreatedAt.After(latest.CreatedAt)) {
			latest = o
		}
	}
	return latest, nil
}

func (m *mockOrderRepo) List(_ context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = status
	return nil
}

type recordingPublisher struct {
	published []*model.Order
	err       error
}

func (p *recordingPublisher) OrderSubmitted(_ context.Context, order *model.Order) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, order)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrderFixture() (*OrderService, *mockOrderRepo, *mockCartRepo, *recordingPublisher, uuid.UUID) {
	orderRepo := newMockOrderRepo()
	cartRepo := newMockCartRepo()
	cartSvc := NewCartService(cartRepo, testDiscountCode)
	pub := &recordingPublisher{}
	svc := NewOrderService(orderRepo, cartRepo, cartSvc, pub, testLogger())

	cartID := uuid.New()
	item := saffronItem()
	item.Quantity = 2
	cartRepo.carts[cartID] = &model.Cart{ID: cartID, Items: []model.CartItem{item}}
	return svc, orderRepo, cartRepo, pub, cartID
}

func checkoutRequest() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		FirstName: "محسن",
		LastName:  "خانی",
		Phone:     "09121234567",
		Address:   "تهران، خیابان ولیعصر",
	}
}

func TestGenerateTrackingCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateTrackingCode()
		require.Len(t, code, 10)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non-digit in tracking code %q", code)
		}
		require.NotEqual(t, byte('0'), code[0], "tracking code below 10^9: %q", code)
	}
}

func TestOrderService_Submit(t *testing.T) {
	svc, orderRepo, cartRepo, pub, cartID := newOrderFixture()

	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)

	assert.Len(t, order.TrackingCode, 10)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(200_000), order.TotalPrice)
	assert.Equal(t, int64(0), order.DiscountAmount)
	assert.Equal(t, int64(200_000), order.FinalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "زعفران سرگل", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// cart is cleared after a successful submit
	cart, err := cartRepo.Load(context.Background(), cartID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.Len(t, orderRepo.orders, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, order.TrackingCode, pub.published[0].TrackingCode)
}

func TestOrderService_Submit_WithDiscount(t *testing.T) {
	svc, _, _, _, cartID := newOrderFixture()

	req := checkoutRequest()
	req.DiscountCode = "  ZAFERAN5 "
	order, err := svc.Submit(context.Background(), cartID, req)
	require.NoError(t, err)

	assert.Equal(t, int64(200_000), order.TotalPrice)
	assert.Equal(t, int64(10_000), order.DiscountAmount)
	assert.Equal(t, int64(190_000), order.FinalPrice)
	assert.Equal(t, "ZAFERAN5", order.DiscountCode)
}

func TestOrderService_Submit_InvalidDiscountCode(t *testing.T) {
	svc, _, _, _, cartID := newOrderFixture()

	req := checkoutRequest()
	req.DiscountCode = "nope"
	order, err := svc.Submit(context.Background(), cartID, req)
	require.NoError(t, err)

	assert.Equal(t, int64(0), order.DiscountAmount)
	assert.Equal(t, order.TotalPrice, order.FinalPrice)
	assert.Empty(t, order.DiscountCode, "rejected codes are not recorded")
}

func TestOrderService_Submit_EmptyCart(t *testing.T) {
	svc, _, _, _, _ := newOrderFixture()
	_, err := svc.Submit(context.Background(), uuid.New(), checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Submit_PersistenceFailureKeepsCart(t *testing.T) {
	svc, orderRepo, cartRepo, pub, cartID := newOrderFixture()
	orderRepo.createErr = errors.New("db down")

	_, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.Error(t, err)

	cart, loadErr := cartRepo.Load(context.Background(), cartID)
	require.NoError(t, loadErr)
	assert.Len(t, cart.Items, 1, "cart must be untouched on persistence failure")
	assert.Empty(t, pub.published)
}

func TestOrderService_Submit_PublisherFailureDoesNotFailOrder(t *testing.T) {
	svc, _, cartRepo, pub, cartID := newOrderFixture()
	pub.err = errors.New("broker down")

	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, order.TrackingCode)

	cart, err := cartRepo.Load(context.Background(), cartID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderService_TrackByCode(t *testing.T) {
	svc, _, _, _, cartID := newOrderFixture()
	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)

	found, err := svc.TrackByCode(context.Background(), "  "+order.TrackingCode+"  ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestOrderService_TrackByCode_NotFound(t *testing.T) {
	svc, _, _, _, _ := newOrderFixture()
	_, err := svc.TrackByCode(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_TrackByPhone(t *testing.T) {
	svc, _, _, _, cartID := newOrderFixture()
	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)

	found, err := svc.TrackByPhone(context.Background(), "09121234567")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.TrackByPhone(context.Background(), "09000000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_List_FilterByStatus(t *testing.T) {
	svc, orderRepo, _, _, cartID := newOrderFixture()
	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)
	require.NoError(t, orderRepo.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped))

	shipped, err := svc.List(context.Background(), model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Len(t, shipped, 1)

	pending, err := svc.List(context.Background(), model.OrderStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.List(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, _, _, _, cartID := newOrderFixture()
	order, err := svc.Submit(context.Background(), cartID, checkoutRequest())
	require.NoError(t, err)

	// any status to any other status, including backwards
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPending))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusCancelled))

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), order.ID, "bogus"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusShipped), ErrOrderNotFound)
}

var _ notify.Publisher = (*recordingPublisher)(nil)
