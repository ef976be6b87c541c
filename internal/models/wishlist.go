package models

import "time"

type Wishlist struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	SessionID *string   `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WishlistItem struct {
	ID               string  `json:"id"`
	WishlistID       string  `json:"wishlistId"`
	ProductID        string  `json:"productId"`
	ProductVariantID *string `json:"productVariantId"`
}

type WishlistItemWithDetails struct {
	WishlistItem
	Product        Product                    `json:"product"`
	ProductVariant *ProductVariantWithDetails `json:"productVariant"`
}

type WishlistWithItems struct {
	Wishlist
	WishlistItems []WishlistItemWithDetails `json:"wishlistItems"`
}

type WishlistItemInput struct {
	ProductID string  `json:"productId" binding:"required" validate:"required"`
	VariantID *string `json:"variantId,omitempty"`
}
