package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/resource"
	"storefront/internal/services"
	"storefront/internal/variants"

	"github.com/gin-gonic/gin"
)

// StatsSource reports cache counters.
type StatsSource interface {
	Stats() cache.StatsSnapshot
}

type AdminHandler struct {
	services  *services.Services
	layer     *resource.Layer
	stats     StatsSource
	logger    *logger.Logger
	threshold int
}

func NewAdminHandler(svc *services.Services, layer *resource.Layer, stats StatsSource, logger *logger.Logger, threshold int) *AdminHandler {
	return &AdminHandler{
		services:  svc,
		layer:     layer,
		stats:     stats,
		logger:    logger,
		threshold: threshold,
	}
}

type combinationsRequest struct {
	Selection *variants.Selection    `json:"selection" binding:"required"`
	Previous  []variants.Combination `json:"previous"`
	// Confirm generates a high count anyway, up to variants.MaxCombinations.
	Confirm bool `json:"confirm"`
}

type labeledCombination struct {
	variants.Combination
	Label string `json:"label"`
}

// Combinations expands an attribute selection into variant combinations,
// keeping prices and stock already entered for combinations that survive.
// A high count only reports the count until the caller confirms.
func (h *AdminHandler) Combinations(c *gin.Context) {
	var req combinationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count := variants.CombinationsCount(req.Selection)
	high := variants.IsCombinationsCountHigh(req.Selection, h.threshold)

	if count > variants.MaxCombinations {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("Too many combinations (maximum %d)", variants.MaxCombinations),
			"count": count,
			"high":  true,
		})
		return
	}
	if high && !req.Confirm {
		c.JSON(http.StatusOK, gin.H{
			"combinations":    []labeledCombination{},
			"count":           count,
			"high":            true,
			"confirmRequired": true,
		})
		return
	}

	catalog, err := h.services.Attributes.List(c.Request.Context(), true)
	if err != nil {
		// Labels fall back to raw option ids.
		h.logger.Warn("Failed to load attributes for labels: %v", err)
	}

	generated := variants.Reconcile(req.Previous, variants.GenerateCombinations(req.Selection))
	out := make([]labeledCombination, len(generated))
	for i, combo := range generated {
		out[i] = labeledCombination{
			Combination: combo,
			Label:       variants.CombinationLabel(combo.Options, catalog),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"combinations": out,
		"count":        count,
		"high":         high,
	})
}

func includeInactive(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("includeInactive", "true"))
	return err != nil || v
}

func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.services.Coupons.AdminList(c.Request.Context(), includeInactive(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch coupons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": coupons})
}

func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var input models.CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	cp, err := h.services.Coupons.Create(c.Request.Context(), input, sink)
	h.mutated(c, rec, http.StatusCreated, cp, err, "Erreur lors de la création du coupon")
}

func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	var input models.CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	cp, err := h.services.Coupons.Update(c.Request.Context(), c.Param("id"), input, sink)
	h.mutated(c, rec, http.StatusOK, cp, err, "Erreur lors de la mise à jour du coupon")
}

func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	rec, sink := newSink(h.logger)
	err := h.services.Coupons.Delete(c.Request.Context(), c.Param("id"), sink)
	h.mutated(c, rec, http.StatusOK, nil, err, "Erreur lors de la suppression du coupon")
}

func (h *AdminHandler) ListAttributes(c *gin.Context) {
	attributes, err := h.services.Attributes.List(c.Request.Context(), includeInactive(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch attributes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attributes})
}

func (h *AdminHandler) CreateAttribute(c *gin.Context) {
	var input models.CreateAttributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	attr, err := h.services.Attributes.Create(c.Request.Context(), input, sink)
	h.mutated(c, rec, http.StatusCreated, attr, err, "Erreur lors de la création de l'attribut")
}

func (h *AdminHandler) UpdateAttribute(c *gin.Context) {
	var input models.UpdateAttributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	attr, err := h.services.Attributes.Update(c.Request.Context(), c.Param("id"), input, sink)
	h.mutated(c, rec, http.StatusOK, attr, err, "Erreur lors de la mise à jour de l'attribut")
}

func (h *AdminHandler) DeleteAttribute(c *gin.Context) {
	rec, sink := newSink(h.logger)
	err := h.services.Attributes.Delete(c.Request.Context(), c.Param("id"), sink)
	h.mutated(c, rec, http.StatusOK, nil, err, "Erreur lors de la suppression de l'attribut")
}

func (h *AdminHandler) ListOptions(c *gin.Context) {
	options, err := h.services.Attributes.Options(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch options")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": options})
}

func (h *AdminHandler) CreateOption(c *gin.Context) {
	var input models.CreateOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	opt, err := h.services.Attributes.CreateOption(c.Request.Context(), c.Param("id"), input, sink)
	h.mutated(c, rec, http.StatusCreated, opt, err, "Erreur lors de la création de l'option")
}

func (h *AdminHandler) UpdateOption(c *gin.Context) {
	var input models.UpdateOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	opt, err := h.services.Attributes.UpdateOption(c.Request.Context(), c.Param("optionId"), input, sink)
	h.mutated(c, rec, http.StatusOK, opt, err, "Erreur lors de la mise à jour de l'option")
}

func (h *AdminHandler) DeleteOption(c *gin.Context) {
	rec, sink := newSink(h.logger)
	err := h.services.Attributes.DeleteOption(c.Request.Context(), c.Param("optionId"), sink)
	h.mutated(c, rec, http.StatusOK, nil, err, "Erreur lors de la suppression de l'option")
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	cat, err := h.services.Categories.Create(c.Request.Context(), input, sink)
	h.mutated(c, rec, http.StatusCreated, cat, err, "Erreur lors de la création de la catégorie")
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	cat, err := h.services.Categories.Update(c.Request.Context(), c.Param("id"), input, sink)
	h.mutated(c, rec, http.StatusOK, cat, err, "Erreur lors de la mise à jour de la catégorie")
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	rec, sink := newSink(h.logger)
	err := h.services.Categories.Delete(c.Request.Context(), c.Param("id"), sink)
	h.mutated(c, rec, http.StatusOK, nil, err, "Erreur lors de la suppression de la catégorie")
}

func (h *AdminHandler) StockSummary(c *gin.Context) {
	summary, err := h.services.Stock.Summary(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *AdminHandler) StockMovements(c *gin.Context) {
	var filter services.MovementsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movements, err := h.services.Stock.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch stock movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *AdminHandler) AdjustStock(c *gin.Context) {
	var input models.StockAdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	movement, err := h.services.Stock.Adjust(c.Request.Context(), input, sink)
	h.mutated(c, rec, http.StatusOK, movement, err, "Erreur lors de l'ajustement du stock")
}

func (h *AdminHandler) BulkAdjustStock(c *gin.Context) {
	var input models.BulkStockAdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	result, err := h.services.Stock.BulkAdjust(c.Request.Context(), input, sink)
	h.mutated(c, rec, http.StatusOK, result, err, "Erreur lors de l'ajustement des stocks")
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var input models.UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, sink := newSink(h.logger)
	order, err := h.services.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), input, sink)
	h.mutated(c, rec, http.StatusOK, order, err, "Erreur lors de la mise à jour du statut")
}

func (h *AdminHandler) Customers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	customers, err := h.services.Admin.Customers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.services.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.stats.Stats()})
}

// InvalidateCache evicts one family, e.g. DELETE /admin/cache/admin/coupons.
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	key, err := cache.ParseKey(strings.Trim(c.Param("family"), "/"))
	if err != nil || len(key) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cache family"})
		return
	}
	n := h.layer.Invalidate(c.Request.Context(), key)
	c.JSON(http.StatusOK, gin.H{"family": key.String(), "evicted": n})
}

func (h *AdminHandler) mutated(c *gin.Context, rec *notify.Recorder, status int, data interface{}, err error, fallback string) {
	if err != nil {
		respondError(c, h.logger, err, fallback)
		return
	}
	body := gin.H{"notifications": rec.Notifications()}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
