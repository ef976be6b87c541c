package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/query"
	"storefront/internal/totals"
)

// ParamCoupon is the URL parameter carrying the applied code.
const ParamCoupon = "coupon"

var (
	ErrEmptyCode  = errors.New("coupon code is empty")
	ErrSuperseded = errors.New("coupon response superseded by a newer request")
)

// Service computes a discount remotely.
type Service interface {
	ApplyCoupon(ctx context.Context, input models.ApplyCouponInput) (*models.AppliedCoupon, error)
}

// Session holds at most one applied coupon and keeps it consistent with the
// order total. Failures clear the coupon and its URL parameter. Every remote
// call takes a token; only the response for the latest token is committed.
type Session struct {
	svc      Service
	router   query.Router
	sink     notify.Sink
	currency string

	mu      sync.Mutex
	applied *models.AppliedCoupon
	token   uint64
}

func NewSession(svc Service, router query.Router, sink notify.Sink, currency string) *Session {
	if sink == nil {
		sink = notify.Discard
	}
	return &Session{svc: svc, router: router, sink: sink, currency: currency}
}

// NormalizeCode trims and upper-cases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Applied returns a copy of the current coupon, or nil.
func (s *Session) Applied() *models.AppliedCoupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.applied)
}

// DiscountPercentage is the effective rate of the applied coupon.
func (s *Session) DiscountPercentage(orderTotal float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totals.DiscountPercentage(s.applied, orderTotal)
}

func (s *Session) nextToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	return s.token
}

// Apply validates code against orderTotal and replaces any applied coupon.
func (s *Session) Apply(ctx context.Context, code string, orderTotal float64) (*models.AppliedCoupon, error) {
	return s.apply(ctx, code, orderTotal, true, "Failed to apply coupon")
}

// apply is Apply with the success toast optional. A code restored from the
// URL was announced when it was first applied.
func (s *Session) apply(ctx context.Context, code string, orderTotal float64, announce bool, failure string) (*models.AppliedCoupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		s.sink.Error("Please enter a coupon code")
		return nil, ErrEmptyCode
	}

	token := s.nextToken()
	result, err := s.svc.ApplyCoupon(ctx, models.ApplyCouponInput{Code: code, OrderTotal: orderTotal})

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.failLocked(err, failure)
		return nil, fmt.Errorf("failed to apply coupon %s: %w", code, err)
	}
	if result == nil {
		s.failLocked(nil, failure)
		return nil, fmt.Errorf("failed to apply coupon %s: empty response", code)
	}

	s.applied = clone(result)
	s.writeCodeLocked(result.Code)
	if announce {
		s.sink.Success(fmt.Sprintf("Coupon %q applied! You save %s", result.Code, totals.FormatDiscount(*result, s.currency)))
	}
	return clone(result), nil
}

// Recalculate re-applies the current code against a new total. A discount
// computed for an old total is never kept: on failure the coupon is cleared.
// Without an applied coupon it does nothing.
func (s *Session) Recalculate(ctx context.Context, orderTotal float64) (*models.AppliedCoupon, error) {
	s.mu.Lock()
	if s.applied == nil {
		s.mu.Unlock()
		return nil, nil
	}
	code := s.applied.Code
	s.token++
	token := s.token
	s.mu.Unlock()

	result, err := s.svc.ApplyCoupon(ctx, models.ApplyCouponInput{Code: code, OrderTotal: orderTotal})

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return nil, ErrSuperseded
	}
	if err != nil || result == nil {
		s.failLocked(err, "Coupon is no longer valid")
		if err == nil {
			err = errors.New("empty response")
		}
		return nil, fmt.Errorf("failed to recalculate coupon %s: %w", code, err)
	}

	s.applied = clone(result)
	return clone(result), nil
}

// Remove clears the coupon and drops any in-flight response.
func (s *Session) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.applied = nil
	s.router.Replace(query.NewParams(), ParamCoupon)
	s.sink.Info("Coupon removed")
}

// SyncFromURL follows the coupon parameter: a code that differs from the
// applied one is applied, a missing code clears the applied coupon. Only a
// scalar parameter counts as a code. A code taken from the URL is applied
// without a success toast.
func (s *Session) SyncFromURL(ctx context.Context, orderTotal float64) (*models.AppliedCoupon, error) {
	code := CodeFromURL(s.router)

	s.mu.Lock()
	var current string
	if s.applied != nil {
		current = s.applied.Code
	}
	if code == "" {
		if s.applied != nil {
			s.token++
			s.applied = nil
		}
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	if code == current {
		return s.Applied(), nil
	}
	return s.apply(ctx, code, orderTotal, false, "Coupon is no longer valid")
}

// OnTotalChanged recalculates when a coupon is applied and the total moved
// to a new positive value.
func (s *Session) OnTotalChanged(ctx context.Context, oldTotal, newTotal float64) (*models.AppliedCoupon, error) {
	s.mu.Lock()
	active := s.applied != nil
	s.mu.Unlock()

	if !active || newTotal == oldTotal || newTotal <= 0 {
		return s.Applied(), nil
	}
	return s.Recalculate(ctx, newTotal)
}

// CodeFromURL returns the scalar coupon parameter of r, or "".
func CodeFromURL(r query.Router) string {
	v := r.Query().Get(ParamCoupon)
	if v == nil || v.IsList() {
		return ""
	}
	return v.String()
}

func (s *Session) failLocked(err error, fallback string) {
	s.applied = nil
	s.router.Replace(query.NewParams(), ParamCoupon)

	msg := fallback
	if err != nil {
		var m interface{ UserMessage() string }
		if errors.As(err, &m) && m.UserMessage() != "" {
			msg = m.UserMessage()
		}
	}
	s.sink.Error(msg)
}

func (s *Session) writeCodeLocked(code string) {
	p := query.NewParams()
	p.Set(ParamCoupon, query.Scalar(strings.ToUpper(code)))
	s.router.Replace(p)
}

func clone(c *models.AppliedCoupon) *models.AppliedCoupon {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
