package domain

import (
	"time"
)

const PaymentStatusPaid = "paid"

type ShippingAddress struct {
	FirstName  string `json:"firstName,omitempty" bson:"first_name,omitempty" dynamodbav:"first_name,omitempty"`
	LastName   string `json:"lastName,omitempty" bson:"last_name,omitempty" dynamodbav:"last_name,omitempty"`
	Address    string `json:"address" bson:"address" dynamodbav:"address" binding:"required"`
	City       string `json:"city" bson:"city" dynamodbav:"city" binding:"required"`
	PostalCode string `json:"postalCode" bson:"postal_code" dynamodbav:"postal_code" binding:"required"`
	Country    string `json:"country" bson:"country" dynamodbav:"country" binding:"required"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty" dynamodbav:"phone,omitempty"`
}

type CheckoutItem struct {
	ProductID string  `json:"productId" bson:"product_id" dynamodbav:"product_id" binding:"required"`
	Name      string  `json:"name" bson:"name" dynamodbav:"name"`
	Image     string  `json:"image" bson:"image" dynamodbav:"image"`
	Price     float64 `json:"price" bson:"price" dynamodbav:"price"`
	Quantity  int     `json:"quantity" bson:"quantity" dynamodbav:"quantity" binding:"required,min=1"`
	Size      string  `json:"size,omitempty" bson:"size,omitempty" dynamodbav:"size,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty" dynamodbav:"color,omitempty"`
}

func (i CheckoutItem) UnitPrice() float64 { return i.Price }
func (i CheckoutItem) Units() int         { return i.Quantity }

type Checkout struct {
	ID              string          `json:"_id" bson:"_id" dynamodbav:"id"`
	UserID          string          `json:"user" bson:"user" dynamodbav:"user"`
	CheckoutItems   []CheckoutItem  `json:"checkoutItems" bson:"checkout_items" dynamodbav:"checkout_items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address" dynamodbav:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" bson:"payment_method" dynamodbav:"payment_method"`
	TotalPrice      float64         `json:"totalPrice" bson:"total_price" dynamodbav:"total_price"`
	IsPaid          bool            `json:"isPaid" bson:"is_paid" dynamodbav:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paid_at,omitempty" dynamodbav:"paid_at,omitempty"`
	PaymentStatus   string          `json:"paymentStatus" bson:"payment_status" dynamodbav:"payment_status"`
	PaymentDetails  map[string]any  `json:"paymentDetails,omitempty" bson:"payment_details,omitempty" dynamodbav:"payment_details,omitempty"`
	IsFinalized     bool            `json:"isFinalized" bson:"is_finalized" dynamodbav:"is_finalized"`
	FinalizedAt     *time.Time      `json:"finalizedAt,omitempty" bson:"finalized_at,omitempty" dynamodbav:"finalized_at,omitempty"`
	OrderID         string          `json:"orderId,omitempty" bson:"order_id,omitempty" dynamodbav:"order_id,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at" dynamodbav:"updated_at"`
}

type CreateCheckoutRequest struct {
	CheckoutItems   []CheckoutItem  `json:"checkoutItems" binding:"required,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
	TotalPrice      float64         `json:"totalPrice" binding:"gte=0"`
}

type PaymentUpdate struct {
	PaymentStatus  string         `json:"paymentStatus" binding:"required"`
	PaymentDetails map[string]any `json:"paymentDetails"`
}
