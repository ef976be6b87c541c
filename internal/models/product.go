package models

import "time"

type Product struct {
	ID          string     `json:"id"`
	CategoryID  *string    `json:"categoryId"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	BasePrice   *float64   `json:"basePrice"`
	Price       *float64   `json:"price"`
	Stock       int        `json:"stock"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	Images      []string   `json:"images"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ProductVariant struct {
	ID        string     `json:"id"`
	ProductID string     `json:"productId"`
	BasePrice float64    `json:"basePrice"`
	Price     *float64   `json:"price"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Stock     int        `json:"stock"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ProductVariantOption links a variant to one attribute option. Option is
// only populated on detail payloads.
type ProductVariantOption struct {
	ID               string                     `json:"id"`
	ProductVariantID string                     `json:"productVariantId"`
	OptionID         string                     `json:"optionId"`
	Option           *AttributeOptionWithParent `json:"option,omitempty"`
}

type ProductVariantWithDetails struct {
	ProductVariant
	ProductVariantOptions []ProductVariantOption `json:"productVariantOptions"`
}

type ProductWithDetails struct {
	Product
	Category        *Category                   `json:"category"`
	ProductVariants []ProductVariantWithDetails `json:"productVariants"`
	AverageRating   float64                     `json:"averageRating"`
	ReviewCount     int                         `json:"reviewCount"`
}

type ProductsResponse struct {
	Data []ProductWithDetails `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NextPage returns the page to fetch after this one, or 0 when the listing
// is exhausted.
func (m PaginationMeta) NextPage() int {
	if !m.HasMore {
		return 0
	}
	return m.Page + 1
}

type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Slug        string   `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	BasePrice   *float64 `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Slug        *string  `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	BasePrice   *float64 `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	IsActive    *bool    `json:"isActive,omitempty"`
}
