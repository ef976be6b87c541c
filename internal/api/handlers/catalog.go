package handlers

import (
	"net/http"
	"strconv"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only storefront facets: filters, search,
// categories and public coupon lookups.
type CatalogHandler struct {
	services *services.Services
	logger   *logger.Logger
}

func NewCatalogHandler(svc *services.Services, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{services: svc, logger: logger}
}

func (h *CatalogHandler) Filters(c *gin.Context) {
	filters, err := h.services.Filters.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch filters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": filters})
}

func (h *CatalogHandler) Search(c *gin.Context) {
	var input models.SearchInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.services.Search.Search(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *CatalogHandler) Suggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	suggestions, err := h.services.Search.Suggestions(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch suggestions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}

func (h *CatalogHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	popular, err := h.services.Search.Popular(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch popular searches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": popular})
}

func (h *CatalogHandler) Instant(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, models.InstantSearchResponse{Products: []models.InstantProduct{}, Categories: []models.FilterCategory{}})
		return
	}

	results, err := h.services.Search.Instant(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.services.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CatalogHandler) BestSellingCategories(c *gin.Context) {
	categories, err := h.services.Categories.BestSelling(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CatalogHandler) Category(c *gin.Context) {
	category, err := h.services.Categories.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *CatalogHandler) ActiveCoupons(c *gin.Context) {
	coupons, err := h.services.Coupons.Active(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch coupons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": coupons})
}

func (h *CatalogHandler) ValidateCoupon(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a coupon code"})
		return
	}

	cp, err := h.services.Coupons.Validate(c.Request.Context(), code)
	if err != nil {
		respondError(c, h.logger, err, "Invalid coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cp})
}

type OrderHandler struct {
	services *services.Services
	logger   *logger.Logger
}

func NewOrderHandler(svc *services.Services, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{services: svc, logger: logger}
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.services.Orders.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.services.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (h *OrderHandler) Create(c *gin.Context) {
	var input models.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, sink := newSink(h.logger)
	order, err := h.services.Orders.Create(c.Request.Context(), input, sink)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place order!")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": order, "notifications": rec.Notifications()})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	rec, sink := newSink(h.logger)
	order, err := h.services.Orders.Cancel(c.Request.Context(), c.Param("id"), sink)
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel order!")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order, "notifications": rec.Notifications()})
}

func (h *OrderHandler) RequestRefund(c *gin.Context) {
	rec, sink := newSink(h.logger)
	order, err := h.services.Orders.RequestRefund(c.Request.Context(), c.Param("id"), sink)
	if err != nil {
		respondError(c, h.logger, err, "Failed to request refund!")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order, "notifications": rec.Notifications()})
}
