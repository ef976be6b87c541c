package models

import "time"

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusProcessing      OrderStatus = "PROCESSING"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusRefundRequested OrderStatus = "REFUND_REQUESTED"
	OrderStatusRefunded        OrderStatus = "REFUNDED"
)

type ShippingType string

const (
	ShippingStandard ShippingType = "STANDARD"
	ShippingExpress  ShippingType = "EXPRESS"
	ShippingPickup   ShippingType = "PICKUP"
)

type OrderItemOption struct {
	Attribute string `json:"attribute"`
	Option    string `json:"option"`
}

type OrderItem struct {
	ID               string            `json:"id"`
	OrderID          string            `json:"orderId"`
	ProductID        string            `json:"productId"`
	ProductVariantID *string           `json:"productVariantId"`
	Name             string            `json:"name"`
	Price            float64           `json:"price"`
	Quantity         int               `json:"quantity"`
	Image            *string           `json:"image"`
	Options          []OrderItemOption `json:"options"`
}

type Order struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	AddressID      string       `json:"addressId"`
	CouponID       *string      `json:"couponId"`
	ShippingType   ShippingType `json:"shippingType"`
	OrderNumber    string       `json:"orderNumber"`
	Status         OrderStatus  `json:"status"`
	SubtotalAmount float64      `json:"subtotalAmount"`
	ShippingCost   float64      `json:"shippingCost"`
	DiscountAmount float64      `json:"discountAmount"`
	TotalAmount    float64      `json:"totalAmount"`
	Notes          *string      `json:"notes"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type OrderDetails struct {
	Order
	OrderItems []OrderItem `json:"orderItems"`
	Coupon     *Coupon     `json:"coupon"`
}

type OrdersResponse struct {
	Data []OrderDetails `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type CreateOrderInput struct {
	AddressID    string       `json:"addressId" binding:"required" validate:"required"`
	ShippingType ShippingType `json:"shippingType" binding:"required" validate:"oneof=STANDARD EXPRESS PICKUP"`
	CouponCode   string       `json:"couponCode,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" binding:"required" validate:"oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED REFUND_REQUESTED REFUNDED"`
}
