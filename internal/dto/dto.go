package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

// --- Admin auth ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// --- Product ---

type ProductResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Weight      string    `json:"weight"`
	Grade       string    `json:"grade"`
	Image       string    `json:"image"`
	Active      bool      `json:"active"`
	Special     bool      `json:"special"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

type SlugListResponse struct {
	Slugs []string `json:"slugs"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Weight      string `json:"weight"`
	Grade       string `json:"grade"`
	Image       string `json:"image"`
	Active      *bool  `json:"active"`
	Special     bool   `json:"special"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Weight      *string `json:"weight"`
	Grade       *string `json:"grade"`
	Image       *string `json:"image"`
	Active      *bool   `json:"active"`
	Special     *bool   `json:"special"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     string `json:"price" binding:"required"`
	Weight    string `json:"weight"`
	Grade     string `json:"grade"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Weight    string `json:"weight"`
	Grade     string `json:"grade"`
	Quantity  int    `json:"quantity"`
}

// CartResponse echoes the cart ID the client must keep for later requests and
// renders totals both numerically and as localized display strings.
type CartResponse struct {
	ID             uuid.UUID          `json:"id"`
	Items          []CartItemResponse `json:"items"`
	TotalItems     int                `json:"total_items"`
	TotalPrice     int64              `json:"total_price"`
	DiscountAmount int64              `json:"discount_amount"`
	FinalPrice     int64              `json:"final_price"`
	TotalDisplay   string             `json:"total_display"`
	FinalDisplay   string             `json:"final_display"`
}

// --- Checkout / orders ---

type CheckoutRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Address      string `json:"address" binding:"required"`
	Notes        string `json:"notes"`
	DiscountCode string `json:"discount_code"`
}

type CheckoutResponse struct {
	OrderID      uuid.UUID `json:"order_id"`
	TrackingCode string    `json:"tracking_code"`
	FinalPrice   int64     `json:"final_price"`
	FinalDisplay string    `json:"final_display"`
}

type OrderItemResponse struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"product_name"`
	Weight    string `json:"product_weight"`
	Grade     string `json:"product_grade"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	TrackingCode   string              `json:"tracking_code"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Phone          string              `json:"phone"`
	Address        string              `json:"address"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	TotalPrice     int64               `json:"total_price"`
	DiscountCode   string              `json:"discount_code,omitempty"`
	DiscountAmount int64               `json:"discount_amount"`
	FinalPrice     int64               `json:"final_price"`
	Status         model.OrderStatus   `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}
