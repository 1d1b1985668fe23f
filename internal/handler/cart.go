package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chiiloo/saffron-store-api/internal/dto"
	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/pricing"
	"github.com/chiiloo/saffron-store-api/internal/service"
)

// cartIDHeader carries the client-held cart identifier. A missing or
// malformed value gets a fresh cart; the assigned ID is echoed back in the
// response body and the same header.
const cartIDHeader = "X-Cart-ID"

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	cartID := h.cartID(c)

	cart, err := h.cartService.Get(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := h.cartID(c)

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), cartID, model.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Weight:    req.Weight,
		Grade:     req.Grade,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID := h.cartID(c)

	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), cartID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID := h.cartID(c)

	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), cartID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	cartID := h.cartID(c)

	if err := h.cartService.Clear(c.Request.Context(), cartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, &model.Cart{ID: cartID})
}

func (h *CartHandler) cartID(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(c.GetHeader(cartIDHeader)); err == nil {
		return id
	}
	return uuid.New()
}

func (h *CartHandler) respond(c *gin.Context, cart *model.Cart) {
	summary := h.cartService.Summarize(cart, c.Query("discount_code"))

	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Weight:    item.Weight,
			Grade:     item.Grade,
			Quantity:  item.Quantity,
		})
	}

	c.Header(cartIDHeader, cart.ID.String())
	c.JSON(http.StatusOK, dto.CartResponse{
		ID:             cart.ID,
		Items:          items,
		TotalItems:     summary.TotalItems,
		TotalPrice:     summary.TotalPrice,
		DiscountAmount: summary.DiscountAmount,
		FinalPrice:     summary.FinalPrice,
		TotalDisplay:   pricing.FormatAmount(summary.TotalPrice),
		FinalDisplay:   pricing.FormatAmount(summary.FinalPrice),
	})
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
