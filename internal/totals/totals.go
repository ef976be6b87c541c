package totals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Pricing holds every price a line item may carry. Nil means the level has
// no price; a zero price is still a price.
type Pricing struct {
	VariantPrice     *float64
	VariantBasePrice *float64
	ProductPrice     *float64
	ProductBasePrice *float64
}

// UnitPrice resolves the effective price: variant sale, variant base, product
// sale, product base, then 0. The more specific level always wins.
func UnitPrice(p Pricing) float64 {
	for _, v := range []*float64{p.VariantPrice, p.VariantBasePrice, p.ProductPrice, p.ProductBasePrice} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// PricingOf extracts the price levels of a cart line.
func PricingOf(product models.Product, variant *models.ProductVariantWithDetails) Pricing {
	p := Pricing{
		ProductPrice:     product.Price,
		ProductBasePrice: product.BasePrice,
	}
	if variant != nil {
		base := variant.BasePrice
		p.VariantPrice = variant.Price
		p.VariantBasePrice = &base
	}
	return p
}

// Line is one priced quantity.
type Line struct {
	Pricing  Pricing
	Quantity int
}

// Sum adds UnitPrice × Quantity over lines. Arithmetic is decimal so that
// 0.1 + 0.2 style drift never reaches a coupon request.
func Sum(lines []Line) float64 {
	total := decimal.Zero
	for _, l := range lines {
		price := decimal.NewFromFloat(UnitPrice(l.Pricing))
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	f, _ := total.Float64()
	return f
}

func cartLines(items []models.CartItemWithDetails) []Line {
	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{Pricing: PricingOf(item.Product, item.ProductVariant), Quantity: item.Quantity}
	}
	return lines
}

// Subtotal is the cart total before discounts.
func Subtotal(items []models.CartItemWithDetails) float64 {
	return Sum(cartLines(items))
}

// ItemCount sums quantities.
func ItemCount(items []models.CartItemWithDetails) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// WishlistTotal prices every wishlist entry once.
func WishlistTotal(items []models.WishlistItemWithDetails) float64 {
	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{Pricing: PricingOf(item.Product, item.ProductVariant), Quantity: 1}
	}
	return Sum(lines)
}

// DiscountPercentage returns the stored rate of a percentage coupon, or the
// effective rate of a fixed one against orderTotal. No coupon or a zero total
// gives 0.
func DiscountPercentage(c *models.AppliedCoupon, orderTotal float64) float64 {
	if c == nil {
		return 0
	}
	if c.Type == models.CouponTypePercentage {
		return c.Value
	}
	if orderTotal == 0 {
		return 0
	}
	pct := decimal.NewFromFloat(c.DiscountAmount).
		Div(decimal.NewFromFloat(orderTotal)).
		Mul(decimal.NewFromInt(100))
	f, _ := pct.Float64()
	return f
}

// FormatDiscount renders the saving for a toast: "10%" or "12.50 FCFA".
func FormatDiscount(c models.AppliedCoupon, currency string) string {
	if c.Type == models.CouponTypePercentage {
		return decimal.NewFromFloat(c.Value).String() + "%"
	}
	return fmt.Sprintf("%s %s", decimal.NewFromFloat(c.DiscountAmount).StringFixed(2), currency)
}
