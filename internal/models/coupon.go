package models

import "time"

type CouponType string

const (
	CouponTypePercentage CouponType = "PERCENTAGE"
	CouponTypeFixed      CouponType = "FIXED"
)

type Coupon struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Description    *string    `json:"description"`
	Value          float64    `json:"value"`
	Type           CouponType `json:"type"`
	UsageLimit     *int       `json:"usageLimit"`
	UsageCount     int        `json:"usageCount"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// AppliedCoupon is a discount computed against one order total. It is
// replaced as a whole whenever the total changes.
type AppliedCoupon struct {
	Coupon
	DiscountAmount float64 `json:"discountAmount"`
	OriginalTotal  float64 `json:"originalTotal"`
	FinalTotal     float64 `json:"finalTotal"`
}

type ApplyCouponInput struct {
	Code       string  `json:"code" validate:"required"`
	OrderTotal float64 `json:"orderTotal" validate:"gte=0"`
}

type CouponInput struct {
	Code           string     `json:"code" binding:"required" validate:"required,min=3,max=50"`
	Description    *string    `json:"description,omitempty"`
	Value          float64    `json:"value" binding:"required,gt=0" validate:"gt=0"`
	Type           CouponType `json:"type" binding:"required,oneof=PERCENTAGE FIXED" validate:"oneof=PERCENTAGE FIXED"`
	UsageLimit     *int       `json:"usageLimit,omitempty" validate:"omitempty,gte=1"`
	MinOrderAmount *float64   `json:"minOrderAmount,omitempty" validate:"omitempty,gte=0"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
}
