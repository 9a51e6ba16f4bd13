package service

import (
	"errors"
	"fmt"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrNoBestSeller     = errors.New("no best seller found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("product not found in cart")
	ErrMissingCartOwner = errors.New("user id or guest id is required")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrEmptyCheckout            = errors.New("no items in checkout")
	ErrInvalidProductReference  = errors.New("checkout references an unknown product")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
	ErrCheckoutNotPaid          = errors.New("checkout is not paid")
	ErrCheckoutAlreadyFinalized = errors.New("checkout already finalized")
	ErrInvalidOrderStatus       = errors.New("invalid order status")

	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
)

// TotalMismatchError is returned when a client-computed checkout total disagrees
// with the total priced from the catalog.
type TotalMismatchError struct {
	Client float64
	Server float64
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total price mismatch: client %.2f, server %.2f", e.Client, e.Server)
}

// notFound swaps the repository sentinel for a domain-specific one.
func notFound(err, domainErr error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domainErr
	}
	return err
}
