package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/events"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

// EventPublisher is satisfied by events.KafkaProducer and events.NopPublisher.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error
	PublishCompensation(ctx context.Context, event events.CompensationEvent) error
}

// orderNamespace seeds the order id derived from a checkout id.
var orderNamespace = uuid.MustParse("6f1c2b7e-3d44-4a8e-9b1f-52a0c4d7e910")

// OrderIDFor returns the id of the order a checkout finalizes into. The same
// checkout always maps to the same order, so a repeated finalize cannot create a
// second order.
func OrderIDFor(checkoutID string) string {
	return uuid.NewSHA1(orderNamespace, []byte(checkoutID)).String()
}

type CheckoutService struct {
	checkouts repository.CheckoutRepository
	orders    repository.OrderRepository
	products  repository.ProductRepository
	carts     *CartService
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(
	checkouts repository.CheckoutRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts *CartService,
	publisher EventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		checkouts: checkouts,
		orders:    orders,
		products:  products,
		carts:     carts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create prices every line from the catalog and stores a pending checkout. A
// non-zero client total must agree with the computed one.
func (s *CheckoutService) Create(ctx context.Context, userID string, req domain.CreateCheckoutRequest) (*domain.Checkout, error) {
	if len(req.CheckoutItems) == 0 {
		return nil, ErrEmptyCheckout
	}

	items := make([]domain.CheckoutItem, 0, len(req.CheckoutItems))
	for _, item := range req.CheckoutItems {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		p, err := s.products.Get(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProductReference, item.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}
		item.Price = p.Price
		if item.Name == "" {
			item.Name = p.Name
		}
		if item.Image == "" {
			item.Image = p.PrimaryImage()
		}
		items = append(items, item)
	}

	total := domain.Total(items)
	if req.TotalPrice != 0 && !domain.SameAmount(req.TotalPrice, total) {
		return nil, &TotalMismatchError{Client: req.TotalPrice, Server: total}
	}

	now := s.now().UTC()
	c := &domain.Checkout{
		ID:              uuid.New().String(),
		UserID:          userID,
		CheckoutItems:   items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalPrice:      total,
		PaymentStatus:   "pending",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.checkouts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}

	s.logger.Info("Checkout created",
		zap.String("checkout_id", c.ID),
		zap.String("user_id", userID),
		zap.Float64("total_price", total))
	return c, nil
}

// Get returns a checkout owned by userID. Another user's checkout is reported as
// not found.
func (s *CheckoutService) Get(ctx context.Context, userID, id string) (*domain.Checkout, error) {
	c, err := s.checkouts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCheckoutNotFound)
	}
	if c.UserID != userID {
		return nil, ErrCheckoutNotFound
	}
	return c, nil
}

// Pay records a successful payment. Paying an already paid checkout returns it
// unchanged.
func (s *CheckoutService) Pay(ctx context.Context, userID, id string, upd domain.PaymentUpdate) (*domain.Checkout, error) {
	if upd.PaymentStatus != domain.PaymentStatusPaid {
		return nil, ErrInvalidPaymentStatus
	}
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.IsPaid {
		return c, nil
	}

	now := s.now().UTC()
	c.IsPaid = true
	c.PaymentStatus = domain.PaymentStatusPaid
	c.PaymentDetails = upd.PaymentDetails
	c.PaidAt = &now
	c.UpdatedAt = now
	if err := s.checkouts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update checkout: %w", err)
	}

	s.logger.Info("Checkout paid",
		zap.String("checkout_id", c.ID),
		zap.String("user_id", userID))
	return c, nil
}

// Finalize turns a paid checkout into an order. It reports created=false when the
// order already existed, in which case the cart is left alone and no event is
// published again.
func (s *CheckoutService) Finalize(ctx context.Context, userID, id, requestID string) (*domain.Order, bool, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, false, err
	}

	if c.IsFinalized && c.OrderID != "" {
		o, err := s.orders.Get(ctx, c.OrderID)
		if err == nil {
			return o, false, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrCheckoutAlreadyFinalized
		}
		return nil, false, err
	}
	if !c.IsPaid {
		return nil, false, ErrCheckoutNotPaid
	}

	now := s.now().UTC()
	order := domain.NewOrderFromCheckout(OrderIDFor(c.ID), c, now)
	created := true
	if err := s.orders.Create(ctx, order); err != nil {
		if !errors.Is(err, repository.ErrAlreadyExists) {
			s.compensate(ctx, c, requestID, err)
			return nil, false, fmt.Errorf("failed to create order: %w", err)
		}
		existing, err := s.orders.Get(ctx, order.OrderID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load order: %w", err)
		}
		order, created = existing, false
	}

	c.IsFinalized = true
	c.FinalizedAt = &now
	c.OrderID = order.OrderID
	c.UpdatedAt = now
	if err := s.checkouts.Update(ctx, c); err != nil {
		// The order is durable; a retry converges through the conditional create.
		s.logger.Warn("Failed to mark checkout finalized",
			zap.String("checkout_id", c.ID),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}

	if !created {
		return order, false, nil
	}

	if err := s.carts.Clear(ctx, domain.CartOwner{UserID: userID}); err != nil {
		s.logger.Warn("Failed to clear cart after finalize",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	event := events.OrderCreatedEvent{
		EventID:    uuid.New().String(),
		Type:       events.TypeOrderCreated,
		OrderID:    order.OrderID,
		CheckoutID: c.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Items:      order.OrderItems,
		Status:     string(order.Status),
		Timestamp:  now,
		RequestID:  requestID,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}

	s.logger.Info("Order created successfully",
		zap.String("order_id", order.OrderID),
		zap.String("checkout_id", c.ID),
		zap.String("user_id", order.UserID),
		zap.Float64("total_price", order.TotalPrice))
	return order, true, nil
}

// Confirm pays and finalizes in one step.
func (s *CheckoutService) Confirm(ctx context.Context, userID, id string, upd domain.PaymentUpdate, requestID string) (*domain.Order, bool, error) {
	if _, err := s.Pay(ctx, userID, id, upd); err != nil {
		return nil, false, err
	}
	return s.Finalize(ctx, userID, id, requestID)
}

func (s *CheckoutService) compensate(ctx context.Context, c *domain.Checkout, requestID string, cause error) {
	event := events.CompensationEvent{
		EventID:    uuid.New().String(),
		Type:       events.TypeCheckoutCompensated,
		CheckoutID: c.ID,
		UserID:     c.UserID,
		TotalPrice: c.TotalPrice,
		Reason:     cause.Error(),
		Timestamp:  s.now().UTC(),
		RequestID:  requestID,
	}
	if err := s.publisher.PublishCompensation(ctx, event); err != nil {
		s.logger.Error("Failed to publish compensation event",
			zap.String("checkout_id", c.ID),
			zap.Error(err))
	}
}
