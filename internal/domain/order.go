package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	OrderID         string          `json:"_id" bson:"_id" dynamodbav:"order_id"`
	CheckoutID      string          `json:"checkoutId" bson:"checkout_id" dynamodbav:"checkout_id"`
	UserID          string          `json:"user" bson:"user" dynamodbav:"user_id"`
	OrderItems      []CheckoutItem  `json:"orderItems" bson:"order_items" dynamodbav:"order_items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address" dynamodbav:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" bson:"payment_method" dynamodbav:"payment_method"`
	TotalPrice      float64         `json:"totalPrice" bson:"total_price" dynamodbav:"total_price"`
	IsPaid          bool            `json:"isPaid" bson:"is_paid" dynamodbav:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paid_at,omitempty" dynamodbav:"paid_at,omitempty"`
	PaymentStatus   string          `json:"paymentStatus" bson:"payment_status" dynamodbav:"payment_status"`
	IsDelivered     bool            `json:"isDelivered" bson:"is_delivered" dynamodbav:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty" dynamodbav:"delivered_at,omitempty"`
	Status          OrderStatus     `json:"status" bson:"status" dynamodbav:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at" dynamodbav:"updated_at"`
}

// NewOrderFromCheckout copies a paid checkout into a durable order record.
func NewOrderFromCheckout(orderID string, c *Checkout, now time.Time) *Order {
	items := make([]CheckoutItem, len(c.CheckoutItems))
	copy(items, c.CheckoutItems)
	return &Order{
		OrderID:         orderID,
		CheckoutID:      c.ID,
		UserID:          c.UserID,
		OrderItems:      items,
		ShippingAddress: c.ShippingAddress,
		PaymentMethod:   c.PaymentMethod,
		TotalPrice:      c.TotalPrice,
		IsPaid:          true,
		PaidAt:          c.PaidAt,
		PaymentStatus:   c.PaymentStatus,
		Status:          OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
