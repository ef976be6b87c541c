package models

import "time"

type AttributeOption struct {
	ID          string     `json:"id"`
	AttributeID string     `json:"attributeId,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	IsActive    bool       `json:"isActive"`
	UsageCount  int        `json:"usageCount,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AttributeOptionWithParent is the option shape embedded in variant payloads.
type AttributeOptionWithParent struct {
	AttributeOption
	Attribute *Attribute `json:"attribute,omitempty"`
}

// Attribute is a product dimension (Color, Size) with its selectable options.
type Attribute struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	IsActive     bool              `json:"isActive"`
	OptionsCount int               `json:"optionsCount,omitempty"`
	Options      []AttributeOption `json:"options"`
	CreatedAt    *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time        `json:"updatedAt,omitempty"`
}

type CreateAttributeInput struct {
	Name     string `json:"name" validate:"required"`
	Slug     string `json:"slug,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UpdateAttributeInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Slug     *string `json:"slug,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Option inputs share the attribute shape.
type (
	CreateOptionInput = CreateAttributeInput
	UpdateOptionInput = UpdateAttributeInput
)
