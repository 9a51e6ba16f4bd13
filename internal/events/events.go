package events

import (
	"time"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

const (
	TypeOrderCreated        = "order.created"
	TypeCheckoutCompensated = "checkout.compensation"
)

type OrderCreatedEvent struct {
	EventID    string                `json:"event_id"`
	Type       string                `json:"type"`
	OrderID    string                `json:"order_id"`
	CheckoutID string                `json:"checkout_id"`
	UserID     string                `json:"user_id"`
	TotalPrice float64               `json:"total_price"`
	Items      []domain.CheckoutItem `json:"items"`
	Status     string                `json:"status"`
	Timestamp  time.Time             `json:"timestamp"`
	RequestID  string                `json:"request_id"`
}

// CompensationEvent reports a paid checkout that could not be turned into an order,
// so the payment can be refunded or the order recreated out of band.
type CompensationEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	CheckoutID string    `json:"checkout_id"`
	UserID     string    `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}
