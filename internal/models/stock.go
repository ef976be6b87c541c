package models

import "time"

type StockMovementReason string

const (
	StockReasonManualAdjustment StockMovementReason = "MANUAL_ADJUSTMENT"
	StockReasonInventoryCount   StockMovementReason = "INVENTORY_COUNT"
	StockReasonDamagedGoods     StockMovementReason = "DAMAGED_GOODS"
	StockReasonOther            StockMovementReason = "OTHER"
)

type StockMovement struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	VariantID     *string   `json:"variantId"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Reason        string    `json:"reason"`
	Reference     *string   `json:"reference"`
	UserID        *string   `json:"userId"`
	Note          *string   `json:"note"`
	PreviousStock int       `json:"previousStock"`
	NewStock      int       `json:"newStock"`
	CreatedAt     time.Time `json:"createdAt"`
}

type StockMovementsResponse struct {
	Data []StockMovement `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}

type StockAdjustmentInput struct {
	ProductID string              `json:"productId" binding:"required" validate:"required"`
	VariantID *string             `json:"variantId,omitempty"`
	NewStock  int                 `json:"newStock" binding:"min=0" validate:"min=0"`
	Reason    StockMovementReason `json:"reason" binding:"required" validate:"oneof=MANUAL_ADJUSTMENT INVENTORY_COUNT DAMAGED_GOODS OTHER"`
	Note      *string             `json:"note,omitempty"`
}

type StockVariantOption struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type StockVariantSummary struct {
	ID      string               `json:"id"`
	Stock   int                  `json:"stock"`
	Options []StockVariantOption `json:"options"`
}

type ProductStockSummary struct {
	Product struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		Stock             int    `json:"stock"`
		TotalVariantStock int    `json:"totalVariantStock"`
	} `json:"product"`
	Variants        []StockVariantSummary `json:"variants"`
	RecentMovements []StockMovement       `json:"recentMovements"`
}

type BulkStockLine struct {
	ProductID string  `json:"productId" validate:"required"`
	VariantID *string `json:"variantId,omitempty"`
	NewStock  int     `json:"newStock" validate:"min=0"`
}

type BulkStockAdjustmentInput struct {
	Adjustments []BulkStockLine `json:"adjustments" binding:"required,min=1" validate:"min=1,dive"`
	Reason      string          `json:"reason,omitempty"`
	Note        *string         `json:"note,omitempty"`
}

type BulkStockAdjustmentResult struct {
	Success   bool            `json:"success"`
	Movements []StockMovement `json:"movements"`
}
