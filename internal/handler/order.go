package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chiiloo/saffron-store-api/internal/dto"
	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/pricing"
	"github.com/chiiloo/saffron-store-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout turns the caller's cart into an order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	cartID, err := uuid.Parse(c.GetHeader(cartIDHeader))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + cartIDHeader + " header"})
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), cartID, req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:      order.ID,
		TrackingCode: order.TrackingCode,
		FinalPrice:   order.FinalPrice,
		FinalDisplay: pricing.FormatAmount(order.FinalPrice),
	})
}

// Track looks an order up by tracking code or phone number. Exactly one of
// the two query parameters must be set; code wins when both are present.
func (h *OrderHandler) Track(c *gin.Context) {
	code := c.Query("code")
	phone := c.Query("phone")
	if code == "" && phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code or phone is required"})
		return
	}

	var (
		order *model.Order
		err   error
	)
	if code != "" {
		order, err = h.orderService.TrackByCode(c.Request.Context(), code)
	} else {
		order, err = h.orderService.TrackByPhone(c.Request.Context(), phone)
	}
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no order found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// --- Admin ---

func (h *OrderHandler) List(c *gin.Context) {
	status := model.OrderStatus(c.Query("status"))

	orders, err := h.orderService.List(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: items, Total: len(items)})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Weight:    item.Weight,
			Grade:     item.Grade,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return dto.OrderResponse{
		ID:             o.ID,
		TrackingCode:   o.TrackingCode,
		FirstName:      o.FirstName,
		LastName:       o.LastName,
		Phone:          o.Phone,
		Address:        o.Address,
		Notes:          o.Notes,
		Items:          items,
		TotalPrice:     o.TotalPrice,
		DiscountCode:   o.DiscountCode,
		DiscountAmount: o.DiscountAmount,
		FinalPrice:     o.FinalPrice,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
