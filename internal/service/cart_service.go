package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

// CartLine selects one product variant in a cart.
type CartLine struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// NewGuestID mints an id for an anonymous cart.
func NewGuestID() string {
	return "guest_" + uuid.New().String()
}

func (s *CartService) Get(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	if !owner.Valid() {
		return nil, ErrMissingCartOwner
	}
	c, err := s.carts.Get(ctx, owner.Key())
	if err != nil {
		return nil, notFound(err, ErrCartNotFound)
	}
	return c, nil
}

// Add puts line.Quantity units of the variant in the owner's cart, creating the cart
// on first use. The line is priced from the catalog at the time it is added.
func (s *CartService) Add(ctx context.Context, owner domain.CartOwner, line CartLine) (*domain.Cart, error) {
	if !owner.Valid() {
		return nil, ErrMissingCartOwner
	}
	if line.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.products.Get(ctx, line.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	now := s.now().UTC()
	c, err := s.carts.Get(ctx, owner.Key())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c = domain.NewCart(uuid.New().String(), owner, now)
	case err != nil:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c.Add(domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.PrimaryImage(),
		Price:     p.Price,
		Size:      line.Size,
		Color:     line.Color,
		Quantity:  line.Quantity,
	})
	c.UpdatedAt = now
	if err := s.carts.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// Update sets the variant's quantity; zero removes the line.
func (s *CartService) Update(ctx context.Context, owner domain.CartOwner, line CartLine) (*domain.Cart, error) {
	if line.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, owner, line, func(c *domain.Cart, i int) {
		if line.Quantity == 0 {
			c.RemoveAt(i)
			return
		}
		c.Products[i].Quantity = line.Quantity
		c.Recalculate()
	})
}

func (s *CartService) Remove(ctx context.Context, owner domain.CartOwner, line CartLine) (*domain.Cart, error) {
	return s.mutate(ctx, owner, line, func(c *domain.Cart, i int) {
		c.RemoveAt(i)
	})
}

func (s *CartService) mutate(ctx context.Context, owner domain.CartOwner, line CartLine, fn func(c *domain.Cart, i int)) (*domain.Cart, error) {
	c, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	i := c.Find(line.ProductID, line.Size, line.Color)
	if i < 0 {
		return nil, ErrCartItemNotFound
	}
	fn(c, i)
	c.UpdatedAt = s.now().UTC()
	if err := s.carts.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// Merge moves a guest cart into the user's cart after sign-in, summing quantities
// of matching lines, and deletes the guest cart.
func (s *CartService) Merge(ctx context.Context, userID, guestID string) (*domain.Cart, error) {
	userOwner := domain.CartOwner{UserID: userID}
	guestKey := domain.CartOwner{GuestID: guestID}.Key()

	guest, err := s.carts.Get(ctx, guestKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load guest cart: %w", err)
		}
		// Nothing to merge; the user's cart is the answer if there is one.
		return s.Get(ctx, userOwner)
	}
	if len(guest.Products) == 0 {
		return nil, ErrCartNotFound
	}

	now := s.now().UTC()
	user, err := s.carts.Get(ctx, userOwner.Key())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = domain.NewCart(uuid.New().String(), userOwner, now)
	case err != nil:
		return nil, fmt.Errorf("failed to load user cart: %w", err)
	}
	for _, item := range guest.Products {
		user.Add(item)
	}
	user.UpdatedAt = now

	if err := s.carts.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	if err := s.carts.Delete(ctx, guestKey); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Failed to delete merged guest cart",
			zap.String("guest_id", guestID),
			zap.Error(err))
	}
	return user, nil
}

// Clear drops the owner's cart; a missing cart is not an error.
func (s *CartService) Clear(ctx context.Context, owner domain.CartOwner) error {
	if err := s.carts.Delete(ctx, owner.Key()); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
