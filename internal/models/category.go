package models

import "time"

type Category struct {
	ID               string    `json:"id"`
	ParentCategoryID *string   `json:"parentCategoryId"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      *string   `json:"description"`
	Image            *string   `json:"image"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CategoryCount struct {
	Products int `json:"products"`
}

type CategoryWithChildren struct {
	Category
	Parent   *Category     `json:"parent"`
	Children []Category    `json:"children"`
	Count    CategoryCount `json:"_count"`
}

type CategoryInput struct {
	Name             string  `json:"name" validate:"required,min=2"`
	Slug             string  `json:"slug,omitempty"`
	Description      *string `json:"description,omitempty"`
	Image            *string `json:"image,omitempty" validate:"omitempty,url"`
	ParentCategoryID *string `json:"parentCategoryId,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
}
