package handlers

import (
	"context"
	"net/http"

	"storefront/internal/coupon"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/query"
	"storefront/internal/services"
	"storefront/internal/totals"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	services *services.Services
	logger   *logger.Logger
	currency string
}

func NewCartHandler(svc *services.Services, logger *logger.Logger, currency string) *CartHandler {
	return &CartHandler{services: svc, logger: logger, currency: currency}
}

func cartBody(cart *models.CartWithItems, rec *notify.Recorder) gin.H {
	body := gin.H{
		"cart":      cart,
		"itemCount": totals.ItemCount(cart.CartItems),
		"subtotal":  totals.Subtotal(cart.CartItems),
	}
	if rec != nil {
		body["notifications"] = rec.Notifications()
	}
	return body
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.services.Carts.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, cartBody(cart, nil))
}

// cartMutation runs one cart write. When the request carries a ?location=
// with a coupon, the coupon is re-priced against the new subtotal and the
// possibly cleaned location is returned with the cart.
func (h *CartHandler) cartMutation(c *gin.Context, failure string, mutate func(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error)) {
	ctx := c.Request.Context()

	var loc *query.Location
	if raw := c.Query("location"); raw != "" {
		var ok bool
		if loc, ok = parseLocation(c, raw, CheckoutPath); !ok {
			return
		}
	}

	var oldTotal float64
	withCoupon := loc != nil && coupon.CodeFromURL(loc) != ""
	if withCoupon {
		before, err := h.services.Carts.Get(ctx)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch cart")
			return
		}
		oldTotal = totals.Subtotal(before.CartItems)
	}

	rec, sink := newSink(h.logger)
	cart, err := mutate(ctx, sink)
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	body := cartBody(cart, rec)
	if loc != nil {
		if withCoupon {
			session := repriceCoupon(ctx, h.services.Coupons, loc, sink, h.currency, oldTotal, totals.Subtotal(cart.CartItems))
			applied := session.Applied()
			body["coupon"] = applied
			if applied != nil {
				body["discountAmount"] = applied.DiscountAmount
				body["total"] = applied.FinalTotal
			}
		}
		body["location"] = loc.String()
		body["notifications"] = rec.Notifications()
	}
	c.JSON(http.StatusOK, body)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var input models.AddCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.cartMutation(c, "Error adding to cart", func(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error) {
		return h.services.Carts.AddItem(ctx, input, sink)
	})
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var input models.UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.cartMutation(c, "Error updating item", func(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error) {
		return h.services.Carts.UpdateItem(ctx, input, sink)
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var input models.RemoveCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.cartMutation(c, "Error removing item", func(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error) {
		return h.services.Carts.RemoveItem(ctx, input, sink)
	})
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.cartMutation(c, "Error clearing cart", func(ctx context.Context, sink notify.Sink) (*models.CartWithItems, error) {
		return h.services.Carts.Clear(ctx, sink)
	})
}

type WishlistHandler struct {
	services *services.Services
	logger   *logger.Logger
}

func NewWishlistHandler(svc *services.Services, logger *logger.Logger) *WishlistHandler {
	return &WishlistHandler{services: svc, logger: logger}
}

func wishlistBody(w *models.WishlistWithItems, rec *notify.Recorder) gin.H {
	body := gin.H{
		"wishlist": w,
		"total":    totals.WishlistTotal(w.WishlistItems),
	}
	if rec != nil {
		body["notifications"] = rec.Notifications()
	}
	return body
}

func (h *WishlistHandler) Get(c *gin.Context) {
	w, err := h.services.Wishlists.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(w, nil))
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	var input models.WishlistItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, sink := newSink(h.logger)
	w, err := h.services.Wishlists.AddItem(c.Request.Context(), input, sink)
	if err != nil {
		respondError(c, h.logger, err, "Error adding to wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(w, rec))
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	var input models.WishlistItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, sink := newSink(h.logger)
	w, err := h.services.Wishlists.RemoveItem(c.Request.Context(), input, sink)
	if err != nil {
		respondError(c, h.logger, err, "Error removing item")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(w, rec))
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	rec, sink := newSink(h.logger)
	w, err := h.services.Wishlists.Clear(c.Request.Context(), sink)
	if err != nil {
		respondError(c, h.logger, err, "Error clearing wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(w, rec))
}
