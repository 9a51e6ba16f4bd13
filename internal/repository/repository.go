// Package repository declares the document-store contracts shared by the
// DynamoDB, MongoDB and in-memory backends.
package repository

import (
	"context"
	"errors"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q catalog.Query) ([]domain.Product, error)
}

type CartRepository interface {
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)
	Put(ctx context.Context, c *domain.Cart) error
	Delete(ctx context.Context, ownerKey string) error
}

type CheckoutRepository interface {
	Create(ctx context.Context, c *domain.Checkout) error
	Get(ctx context.Context, id string) (*domain.Checkout, error)
	Update(ctx context.Context, c *domain.Checkout) error
}

type OrderRepository interface {
	// Create fails with ErrAlreadyExists when an order with the same id is stored.
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type UserRepository interface {
	// Create fails with ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Products  ProductRepository
	Carts     CartRepository
	Checkouts CheckoutRepository
	Orders    OrderRepository
	Users     UserRepository

	// Ping checks backend reachability for health reporting.
	Ping func(ctx context.Context) error
	// Close releases backend connections.
	Close func(ctx context.Context) error
}
