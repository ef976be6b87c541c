// Package services declares the remote REST families on top of the resource
// layer: which path each read hits, how long it stays fresh, and which cache
// families each write evicts.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/resource"
)

var ErrInvalidInput = errors.New("invalid input")

// Stale times per family.
const (
	FiltersStaleTime      = 10 * time.Minute
	CartStaleTime         = 5 * time.Minute
	AdminCouponsStaleTime = 2 * time.Minute
	SearchStaleTime       = time.Minute
)

// Cache family roots. Writes evict a root and everything beneath it.
var (
	KeyProducts        = cache.NewKey("products")
	KeyFilters         = cache.NewKey("filters")
	KeyCategories      = cache.NewKey("categories")
	KeySearch          = cache.NewKey("search")
	KeyCart            = cache.NewKey("cart")
	KeyWishlist        = cache.NewKey("wishlist")
	KeyOrders          = cache.NewKey("orders")
	KeyStock           = cache.NewKey("stock")
	KeyAdminAttributes = cache.NewKey("admin", "attributes")
	KeyAdminCoupons    = cache.NewKey("admin", "coupons")
	KeyAdminCustomers  = cache.NewKey("admin", "customers")
	KeyAdminDashboard  = cache.NewKey("admin", "dashboard")
)

type Services struct {
	Products   *ProductService
	Filters    *FilterService
	Search     *SearchService
	Categories *CategoryService
	Attributes *AttributeService
	Coupons    *CouponService
	Carts      *CartService
	Wishlists  *WishlistService
	Orders     *OrderService
	Stock      *StockService
	Admin      *AdminService
}

func New(layer *resource.Layer, logger *logger.Logger) *Services {
	v := newValidator()
	return &Services{
		Products:   &ProductService{layer: layer, validate: v},
		Filters:    &FilterService{layer: layer},
		Search:     &SearchService{layer: layer, validate: v},
		Categories: &CategoryService{layer: layer, validate: v},
		Attributes: &AttributeService{layer: layer, validate: v},
		Coupons:    &CouponService{layer: layer, validate: v, logger: logger},
		Carts:      &CartService{layer: layer, validate: v},
		Wishlists:  &WishlistService{layer: layer, validate: v},
		Orders:     &OrderService{layer: layer, validate: v},
		Stock:      &StockService{layer: layer, validate: v},
		Admin:      &AdminService{layer: layer},
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(couponInputRules, models.CouponInput{})
	return v
}

// couponInputRules caps percentage coupons at 100.
func couponInputRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.CouponInput)
	if in.Type == models.CouponTypePercentage && in.Value > 100 {
		sl.ReportError(in.Value, "Value", "value", "max", "100")
	}
}

func check(v *validator.Validate, input interface{}) error {
	if err := v.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// guestIdentity keys personal entries of a request without identity headers.
const guestIdentity = "guest"

// personalQuery keys a per-shopper read by session id and by a digest of the
// identity headers, since the remote API resolves the shopper from those.
// Without a session the read is not cached at all.
func personalQuery(ctx context.Context, root cache.Key, path string, stale time.Duration) resource.Query {
	id := apiclient.SessionID(ctx)
	if id == "" {
		return resource.Query{Path: path, StaleTime: resource.NoCache}
	}
	identity := apiclient.Identity(ctx)
	if identity == "" {
		identity = guestIdentity
	}
	return resource.Query{Key: root.Append(id, identity), Path: path, StaleTime: stale}
}

// personalKey is the eviction prefix for personalQuery: every identity seen
// under the session goes at once.
func personalKey(ctx context.Context, root cache.Key) cache.Key {
	if id := apiclient.SessionID(ctx); id != "" {
		return root.Append(id)
	}
	return root
}

func pathID(id string) string {
	return url.PathEscape(id)
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}
