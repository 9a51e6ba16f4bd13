package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// Checkout flow steps reported in StepError.
const (
	StepCreate   = "create-checkout"
	StepVerify   = "verify-total"
	StepPayment  = "capture-payment"
	StepMarkPaid = "mark-paid"
	StepFinalize = "finalize"
)

var (
	ErrTotalMismatch = errors.New("checkout total does not match cart total")
	ErrEmptyCart     = errors.New("cart is empty")
)

// StepError reports which checkout step failed. CheckoutID is set once the
// checkout exists, so the caller can resume with Finalize.
type StepError struct {
	Step       string
	CheckoutID string
	Err        error
}

func (e *StepError) Error() string {
	if e.CheckoutID != "" {
		return fmt.Sprintf("checkout %s: %s: %v", e.CheckoutID, e.Step, e.Err)
	}
	return fmt.Sprintf("checkout: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// PaymentProvider captures payment for a created checkout and returns the raw
// provider response stored as paymentDetails.
type PaymentProvider interface {
	Capture(ctx context.Context, checkout *Checkout) (map[string]any, error)
}

// CartTotal sums unit price times quantity over the cart lines.
func CartTotal(lines []CartItem) float64 {
	return domain.Total(lines)
}

type CheckoutFlow struct {
	Client   *Client
	Payments PaymentProvider
}

// Run turns the cart into an order: create checkout, verify the recorded total,
// capture payment, mark paid, finalize.
func (f *CheckoutFlow) Run(ctx context.Context, s Session, cart *Cart, address ShippingAddress, paymentMethod string) (*Order, error) {
	if cart == nil || len(cart.Products) == 0 {
		return nil, &StepError{Step: StepCreate, Err: ErrEmptyCart}
	}

	total := CartTotal(cart.Products)
	items := make([]CheckoutItem, 0, len(cart.Products))
	for _, line := range cart.Products {
		items = append(items, CheckoutItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
	}

	co, err := f.Client.CreateCheckout(ctx, s, CreateCheckoutRequest{
		CheckoutItems:   items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		TotalPrice:      total,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.TotalMismatch() {
			err = fmt.Errorf("%w: %w", ErrTotalMismatch, err)
		}
		return nil, &StepError{Step: StepCreate, Err: err}
	}
	if !domain.SameAmount(co.TotalPrice, total) {
		return nil, &StepError{
			Step:       StepVerify,
			CheckoutID: co.ID,
			Err:        fmt.Errorf("%w: cart %.2f, checkout %.2f", ErrTotalMismatch, total, co.TotalPrice),
		}
	}

	details, err := f.Payments.Capture(ctx, co)
	if err != nil {
		return nil, &StepError{Step: StepPayment, CheckoutID: co.ID, Err: err}
	}
	if _, err := f.Client.MarkPaid(ctx, s, co.ID, details); err != nil {
		return nil, &StepError{Step: StepMarkPaid, CheckoutID: co.ID, Err: err}
	}
	order, err := f.Client.Finalize(ctx, s, co.ID)
	if err != nil {
		return nil, &StepError{Step: StepFinalize, CheckoutID: co.ID, Err: err}
	}
	return order, nil
}
