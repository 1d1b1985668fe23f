package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiiloo/saffron-store-api/internal/dto"
	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/service"
)

// catalogCacheControl matches the short-lived caching of the original
// catalog proxy route.
const catalogCacheControl = "public, s-maxage=60, stale-while-revalidate=300"

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

func (h *ProductHandler) List(c *gin.Context) {
	specialOnly := c.Query("special") == "true"

	products, err := h.catalogService.ListActive(c.Request.Context(), specialOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, toProductListResponse(products))
}

func (h *ProductHandler) ListSlugs(c *gin.Context) {
	slugs, err := h.catalogService.ListSlugs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, dto.SlugListResponse{Slugs: slugs})
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.catalogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// --- Admin ---

func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.catalogService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toProductListResponse(products))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Weight:      req.Weight,
		Grade:       req.Grade,
		Image:       req.Image,
		Active:      active,
		Special:     req.Special,
	}

	if err := h.catalogService.Create(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalogService.Update(c.Request.Context(), id, func(p *model.Product) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Weight != nil {
			p.Weight = *req.Weight
		}
		if req.Grade != nil {
			p.Grade = *req.Grade
		}
		if req.Image != nil {
			p.Image = *req.Image
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
		if req.Special != nil {
			p.Special = *req.Special
		}
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Weight:      p.Weight,
		Grade:       p.Grade,
		Image:       p.Image,
		Active:      p.Active,
		Special:     p.Special,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListResponse(products []model.Product) dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return dto.ProductListResponse{Products: items, Total: len(items)}
}
