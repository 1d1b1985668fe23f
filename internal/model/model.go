package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Prices are localized currency strings owned by
// the catalog source (e.g. "۱۲۰,۰۰۰ تومان"); the storefront never edits them,
// it only parses them for totals.
type Product struct {
	ID          int
	Name        string
	Slug        string
	Description string
	Price       string
	Weight      string
	Grade       string
	Image       string
	Active      bool
	Special     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cart is a per-session collection of items keyed by product ID.
type Cart struct {
	ID    uuid.UUID  `json:"id"`
	Items []CartItem `json:"items"`
}

// CartItem carries a display snapshot of the product alongside the quantity
// so the cart stays renderable even if the catalog changes underneath it.
type CartItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Weight    string `json:"weight"`
	Grade     string `json:"grade"`
	Quantity  int    `json:"quantity"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the six known statuses.
// Transitions between statuses are unrestricted.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is created once at checkout and afterwards mutated only through
// status updates. Monetary fields are integer toman:
// FinalPrice = TotalPrice - DiscountAmount.
type Order struct {
	ID             uuid.UUID
	TrackingCode   string
	FirstName      string
	LastName       string
	Phone          string
	Address        string
	Notes          string
	Items          []OrderItem
	TotalPrice     int64
	DiscountCode   string
	DiscountAmount int64
	FinalPrice     int64
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is a snapshot of a cart item taken at submission time,
// independent of later catalog changes.
type OrderItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"product_name"`
	Weight    string `json:"product_weight"`
	Grade     string `json:"product_grade"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderMessage is published when an order is submitted and consumed by the
// notifier worker.
type OrderMessage struct {
	OrderID      uuid.UUID `json:"order_id"`
	TrackingCode string    `json:"tracking_code"`
}
