package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/resource"
)

// CouponService covers shopper-side validation and application, and admin
// coupon management. It satisfies coupon.Service.
type CouponService struct {
	layer    *resource.Layer
	validate *validator.Validate
	logger   *logger.Logger
}

// Validate looks a code up without computing a discount. Never cached: usage
// counts move with every order.
func (s *CouponService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	return fetchPtr[models.Coupon](ctx, s.layer, resource.Query{
		Path:      "/coupons/validate",
		Params:    url.Values{"code": {code}},
		StaleTime: resource.NoCache,
	})
}

// ApplyCoupon computes the discount for input against the remote API.
// Notifications are left to the caller's coupon session.
func (s *CouponService) ApplyCoupon(ctx context.Context, input models.ApplyCouponInput) (*models.AppliedCoupon, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	s.logger.Debug("Applying coupon %s to total %.2f", input.Code, input.OrderTotal)
	return mutatePtr[models.AppliedCoupon](ctx, s.layer, notify.Discard, resource.Mutation{
		Method: http.MethodPost,
		Path:   "/coupons/apply",
		Body:   input,
	})
}

// Active lists coupons currently open to shoppers.
func (s *CouponService) Active(ctx context.Context) ([]models.Coupon, error) {
	return resource.Fetch[[]models.Coupon](ctx, s.layer, resource.Query{
		Key:  cache.NewKey("coupons", "active"),
		Path: "/coupons",
	})
}

func (s *CouponService) AdminList(ctx context.Context, includeInactive bool) ([]models.Coupon, error) {
	return resource.Fetch[[]models.Coupon](ctx, s.layer, resource.Query{
		Key:       KeyAdminCoupons.Append(strconv.FormatBool(includeInactive)),
		Path:      "/admin/coupons",
		Params:    url.Values{"includeInactive": {strconv.FormatBool(includeInactive)}},
		StaleTime: AdminCouponsStaleTime,
	})
}

var couponFamilies = []cache.Key{KeyAdminCoupons, cache.NewKey("coupons")}

func (s *CouponService) Create(ctx context.Context, input models.CouponInput, sink notify.Sink) (*models.Coupon, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Coupon](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPost,
		Path:        "/admin/coupons",
		Body:        input,
		Invalidates: couponFamilies,
		Success:     "Coupon créé avec succès",
		Failure:     "Erreur lors de la création du coupon",
	})
}

func (s *CouponService) Update(ctx context.Context, id string, input models.CouponInput, sink notify.Sink) (*models.Coupon, error) {
	if err := check(s.validate, input); err != nil {
		return nil, err
	}
	return mutatePtr[models.Coupon](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodPatch,
		Path:        "/admin/coupons/" + pathID(id),
		Body:        input,
		Invalidates: couponFamilies,
		Success:     "Coupon mis à jour avec succès",
		Failure:     "Erreur lors de la mise à jour du coupon",
	})
}

func (s *CouponService) Delete(ctx context.Context, id string, sink notify.Sink) error {
	_, err := resource.Mutate[json.RawMessage](ctx, s.layer, sink, resource.Mutation{
		Method:      http.MethodDelete,
		Path:        "/admin/coupons/" + pathID(id),
		Invalidates: couponFamilies,
		Success:     "Coupon supprimé avec succès",
		Failure:     "Erreur lors de la suppression du coupon",
	})
	return err
}
