package models

import "time"

type Cart struct {
	ID             string     `json:"id"`
	UserID         *string    `json:"userId"`
	SessionID      *string    `json:"sessionId"`
	ShareToken     *string    `json:"shareToken"`
	ShareExpiresAt *time.Time `json:"shareExpiresAt"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID               string  `json:"id"`
	CartID           string  `json:"cartId"`
	ProductID        string  `json:"productId"`
	ProductVariantID *string `json:"productVariantId"`
	Quantity         int     `json:"quantity"`
}

type CartItemWithDetails struct {
	CartItem
	Product        Product                    `json:"product"`
	ProductVariant *ProductVariantWithDetails `json:"productVariant"`
}

type CartWithItems struct {
	Cart
	CartItems []CartItemWithDetails `json:"cartItems"`
}

type AddCartItemInput struct {
	ProductID string  `json:"productId" binding:"required" validate:"required"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity" binding:"required,min=1" validate:"min=1"`
}

// A quantity of 0 removes the line.
type UpdateCartItemInput struct {
	ItemID   string `json:"itemId" binding:"required" validate:"required"`
	Quantity int    `json:"quantity" binding:"min=0" validate:"min=0"`
}

type RemoveCartItemInput struct {
	ItemID string `json:"itemId" binding:"required" validate:"required"`
}
