package handlers

import (
	"net/http"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/query"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// ListingPath is the storefront route whose query string carries the filters.
const ListingPath = "/products"

type ProductHandler struct {
	services *services.Services
	logger   *logger.Logger
}

func NewProductHandler(svc *services.Services, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		services: svc,
		logger:   logger,
	}
}

// List takes the browser's listing query string as is.
func (h *ProductHandler) List(c *gin.Context) {
	params := query.ParseQuery(c.Request.URL.RawQuery)
	state := query.Decode(params)

	resp, err := h.services.Products.List(c.Request.Context(), state)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     resp.Data,
		"meta":     resp.Meta,
		"nextPage": resp.Meta.NextPage(),
		"filters":  viewFilters(state),
		"location": query.NewLocation(ListingPath, params).String(),
	})
}

type filterUpdate struct {
	Location   string    `json:"location" binding:"required"`
	Reset      bool      `json:"reset"`
	Search     *string   `json:"search"`
	Categories *[]string `json:"categories"`
	PriceRange *struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"priceRange"`
	Sort *struct {
		By    string `json:"by"`
		Order string `json:"order"`
	} `json:"sort"`
	Page    *string             `json:"page"`
	Options *[]query.OptionPair `json:"options"`
	Toggle  *query.OptionPair   `json:"toggle"`
}

func (u filterUpdate) options() []query.Option {
	var opts []query.Option
	if u.Search != nil {
		opts = append(opts, query.WithSearch(*u.Search))
	}
	if u.Categories != nil {
		opts = append(opts, query.WithCategories(*u.Categories...))
	}
	if u.PriceRange != nil {
		opts = append(opts, query.WithPriceRange(u.PriceRange.Min, u.PriceRange.Max))
	}
	if u.Sort != nil {
		opts = append(opts, query.WithSort(u.Sort.By, u.Sort.Order))
	}
	if u.Options != nil {
		opts = append(opts, query.WithOptions(*u.Options...))
	}
	if u.Toggle != nil {
		opts = append(opts, query.ToggleOption(u.Toggle.Key, u.Toggle.Value))
	}
	if u.Page != nil {
		opts = append(opts, query.WithPage(*u.Page))
	}
	return opts
}

// UpdateFilters applies a partial filter change to the caller's current URL
// and returns the URL to navigate to. Changing any filter resets the page.
func (h *ProductHandler) UpdateFilters(c *gin.Context) {
	var req filterUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := query.ParseLocation(req.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var state query.FilterState
	if req.Reset {
		query.ResetFilters(loc)
	} else {
		state = query.SetFilters(loc, req.options()...)
	}

	c.JSON(http.StatusOK, gin.H{
		"location": loc.String(),
		"filters":  viewFilters(state),
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.services.Products.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Related(c *gin.Context) {
	products, err := h.services.Products.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch related products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.services.Products.Featured(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch featured products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) RecentDiscount(c *gin.Context) {
	product, err := h.services.Products.RecentDiscount(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch discounted product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, sink := newSink(h.logger)
	product, err := h.services.Products.Create(c.Request.Context(), input, sink)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": product, "notifications": rec.Notifications()})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, sink := newSink(h.logger)
	product, err := h.services.Products.Update(c.Request.Context(), c.Param("id"), input, sink)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product, "notifications": rec.Notifications()})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	rec, sink := newSink(h.logger)
	if err := h.services.Products.Delete(c.Request.Context(), c.Param("id"), sink); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rec.Notifications()})
}
