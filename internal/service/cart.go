package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/pricing"
	"github.com/chiiloo/saffron-store-api/internal/repository"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartSummary is the priced view of a cart for a given (possibly empty)
// discount code.
type CartSummary struct {
	TotalItems     int
	TotalPrice     int64
	DiscountAmount int64
	FinalPrice     int64
}

// CartService owns the per-session cart: one instance constructed at startup
// and handed to the handlers, never ambient state. Every mutation persists
// the whole cart back to the store.
type CartService struct {
	cartRepo     repository.CartRepository
	discountCode string
}

func NewCartService(cartRepo repository.CartRepository, discountCode string) *CartService {
	return &CartService{cartRepo: cartRepo, discountCode: discountCode}
}

func (s *CartService) Get(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	return s.cartRepo.Load(ctx, cartID)
}

// AddItem inserts the product with quantity 1, or increments the quantity
// when the product is already in the cart.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, item model.CartItem) (*model.Cart, error) {
	cart, err := s.cartRepo.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		cart.Items = append(cart.Items, item)
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// SetQuantity sets the quantity for a product; a quantity of zero or less
// removes the item entirely.
func (s *CartService) SetQuantity(ctx context.Context, cartID uuid.UUID, productID, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	cart, err := s.cartRepo.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int) (*model.Cart, error) {
	cart, err := s.cartRepo.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Summarize prices the cart. The discount code may be empty.
func (s *CartService) Summarize(cart *model.Cart, discountCode string) CartSummary {
	total := pricing.Total(cart.Items)
	discount := pricing.DiscountAmount(total, discountCode, s.discountCode)
	return CartSummary{
		TotalItems:     pricing.TotalItems(cart.Items),
		TotalPrice:     total,
		DiscountAmount: discount,
		FinalPrice:     total - discount,
	}
}
