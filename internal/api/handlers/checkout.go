package handlers

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/coupon"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/query"
	"storefront/internal/services"
	"storefront/internal/totals"

	"github.com/gin-gonic/gin"
)

// CheckoutPath is the storefront route whose URL carries the coupon code.
const CheckoutPath = "/checkout"

type CheckoutHandler struct {
	services *services.Services
	logger   *logger.Logger
	currency string
}

func NewCheckoutHandler(svc *services.Services, logger *logger.Logger, currency string) *CheckoutHandler {
	return &CheckoutHandler{services: svc, logger: logger, currency: currency}
}

// checkout is one request's view of the order: the cart subtotal and a coupon
// session bound to the caller's URL.
type checkout struct {
	location *query.Location
	session  *coupon.Session
	recorder *notify.Recorder
	subtotal float64
}

func (h *CheckoutHandler) open(c *gin.Context, loc *query.Location) (*checkout, bool) {
	cart, err := h.services.Carts.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cart")
		return nil, false
	}

	rec, sink := newSink(h.logger)
	return &checkout{
		location: loc,
		session:  coupon.NewSession(h.services.Coupons, loc, sink, h.currency),
		recorder: rec,
		subtotal: totals.Subtotal(cart.CartItems),
	}, true
}

func (h *CheckoutHandler) summary(co *checkout) gin.H {
	applied := co.session.Applied()
	body := gin.H{
		"subtotal":           co.subtotal,
		"coupon":             applied,
		"discountAmount":     0.0,
		"discountPercentage": co.session.DiscountPercentage(co.subtotal),
		"total":              co.subtotal,
		"location":           co.location.String(),
		"notifications":      co.recorder.Notifications(),
	}
	if applied != nil {
		body["discountAmount"] = applied.DiscountAmount
		body["discountLabel"] = totals.FormatDiscount(*applied, h.currency)
		body["total"] = applied.FinalTotal
	}
	return body
}

// Summary follows the coupon parameter of the request URL. A code the
// backend rejects is dropped from the returned location.
func (h *CheckoutHandler) Summary(c *gin.Context) {
	loc := query.NewLocation(CheckoutPath, query.ParseQuery(c.Request.URL.RawQuery))
	co, ok := h.open(c, loc)
	if !ok {
		return
	}

	if _, err := co.session.SyncFromURL(c.Request.Context(), co.subtotal); err != nil {
		h.logger.Debug("Coupon from URL rejected: %v", err)
	}
	c.JSON(http.StatusOK, h.summary(co))
}

type applyCouponRequest struct {
	Code     string `json:"code"`
	Location string `json:"location"`
}

func (h *CheckoutHandler) ApplyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, ok := h.location(c, req.Location)
	if !ok {
		return
	}
	co, ok := h.open(c, loc)
	if !ok {
		return
	}

	status := http.StatusOK
	if _, err := co.session.Apply(c.Request.Context(), req.Code, co.subtotal); err != nil {
		status = couponStatus(err)
	}
	c.JSON(status, h.summary(co))
}

func (h *CheckoutHandler) RemoveCoupon(c *gin.Context) {
	loc, ok := h.location(c, c.Query("location"))
	if !ok {
		return
	}
	co, ok := h.open(c, loc)
	if !ok {
		return
	}

	co.session.Remove()
	c.JSON(http.StatusOK, h.summary(co))
}

func (h *CheckoutHandler) location(c *gin.Context, raw string) (*query.Location, bool) {
	return parseLocation(c, raw, CheckoutPath)
}

// parseLocation reads a browser location; an empty one is fallback with no
// parameters.
func parseLocation(c *gin.Context, raw, fallback string) (*query.Location, bool) {
	if raw == "" {
		return query.NewLocation(fallback, query.NewParams()), true
	}
	loc, err := query.ParseLocation(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return loc, true
}

// repriceCoupon keeps the coupon carried by loc consistent with a cart whose
// subtotal moved from oldTotal to newTotal. The coupon is restored at the
// total it was applied to, then recalculated; either failure drops it from
// loc.
func repriceCoupon(ctx context.Context, svc coupon.Service, loc *query.Location, sink notify.Sink, currency string, oldTotal, newTotal float64) *coupon.Session {
	session := coupon.NewSession(svc, loc, sink, currency)
	if coupon.CodeFromURL(loc) == "" {
		return session
	}
	if _, err := session.SyncFromURL(ctx, oldTotal); err != nil {
		return session
	}
	session.OnTotalChanged(ctx, oldTotal, newTotal)
	return session
}

func couponStatus(err error) int {
	if errors.Is(err, coupon.ErrEmptyCode) || errors.Is(err, services.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if status := apiclient.StatusOf(err); status != 0 {
		return status
	}
	return http.StatusBadGateway
}
