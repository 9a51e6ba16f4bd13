package client

import "github.com/cloud-wave-best-zizon/storefront-service/internal/domain"

// Wire types shared with the server. Aliases let importers outside this module
// build requests and read responses.
type (
	Product              = domain.Product
	ProductImage         = domain.ProductImage
	Dimensions           = domain.Dimensions
	CreateProductRequest = domain.CreateProductRequest

	Cart     = domain.Cart
	CartItem = domain.CartItem

	ShippingAddress       = domain.ShippingAddress
	Checkout              = domain.Checkout
	CheckoutItem          = domain.CheckoutItem
	CreateCheckoutRequest = domain.CreateCheckoutRequest
	PaymentUpdate         = domain.PaymentUpdate

	Order       = domain.Order
	OrderStatus = domain.OrderStatus

	User            = domain.User
	Role            = domain.Role
	RegisterRequest = domain.RegisterRequest
	LoginRequest    = domain.LoginRequest
	AuthResponse    = domain.AuthResponse
)

const (
	PaymentStatusPaid = domain.PaymentStatusPaid

	OrderStatusProcessing = domain.OrderStatusProcessing
	OrderStatusShipped    = domain.OrderStatusShipped
	OrderStatusDelivered  = domain.OrderStatusDelivered
	OrderStatusCancelled  = domain.OrderStatusCancelled
)
