// Package memory is a process-local document store used by tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

// collection keeps documents by id and remembers insertion order as the natural order.
type collection[T any] struct {
	mu    sync.RWMutex
	docs  map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{docs: make(map[string]T)}
}

func (c *collection[T]) insert(id string, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; ok {
		return repository.ErrAlreadyExists
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) upsert(id string, doc T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}

func (c *collection[T]) replace(id string, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return repository.ErrNotFound
	}
	c.docs[id] = doc
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return doc, nil
}

func (c *collection[T]) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// New returns all repositories backed by process memory.
func New() repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(),
		Carts:     NewCartRepository(),
		Checkouts: NewCheckoutRepository(),
		Orders:    NewOrderRepository(),
		Users:     NewUserRepository(),
		Ping:      func(context.Context) error { return nil },
		Close:     func(context.Context) error { return nil },
	}
}

type ProductRepository struct{ c *collection[domain.Product] }

func NewProductRepository() *ProductRepository {
	return &ProductRepository{c: newCollection[domain.Product]()}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) error {
	return r.c.insert(p.ID, *p)
}

func (r *ProductRepository) Get(_ context.Context, id string) (*domain.Product, error) {
	p, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	return r.c.replace(p.ID, *p)
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *ProductRepository) Find(_ context.Context, q catalog.Query) ([]domain.Product, error) {
	return q.Apply(r.c.all()), nil
}

type CartRepository struct{ c *collection[domain.Cart] }

func NewCartRepository() *CartRepository {
	return &CartRepository{c: newCollection[domain.Cart]()}
}

func (r *CartRepository) Get(_ context.Context, ownerKey string) (*domain.Cart, error) {
	c, err := r.c.get(ownerKey)
	if err != nil {
		return nil, err
	}
	c.Products = append([]domain.CartItem(nil), c.Products...)
	return &c, nil
}

func (r *CartRepository) Put(_ context.Context, c *domain.Cart) error {
	cp := *c
	cp.Products = append([]domain.CartItem(nil), c.Products...)
	r.c.upsert(c.OwnerKey, cp)
	return nil
}

func (r *CartRepository) Delete(_ context.Context, ownerKey string) error {
	return r.c.remove(ownerKey)
}

type CheckoutRepository struct{ c *collection[domain.Checkout] }

func NewCheckoutRepository() *CheckoutRepository {
	return &CheckoutRepository{c: newCollection[domain.Checkout]()}
}

func (r *CheckoutRepository) Create(_ context.Context, c *domain.Checkout) error {
	return r.c.insert(c.ID, *c)
}

func (r *CheckoutRepository) Get(_ context.Context, id string) (*domain.Checkout, error) {
	c, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CheckoutRepository) Update(_ context.Context, c *domain.Checkout) error {
	return r.c.replace(c.ID, *c)
}

type OrderRepository struct{ c *collection[domain.Order] }

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{c: newCollection[domain.Order]()}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) error {
	return r.c.insert(o.OrderID, *o)
}

func (r *OrderRepository) Get(_ context.Context, id string) (*domain.Order, error) {
	o, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Update(_ context.Context, o *domain.Order) error {
	return r.c.replace(o.OrderID, *o)
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.c.all() {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepository) List(_ context.Context) ([]domain.Order, error) {
	return r.c.all(), nil
}

type UserRepository struct {
	c       *collection[domain.User]
	mu      sync.Mutex
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{c: newCollection[domain.User](), byEmail: make(map[string]string)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return repository.ErrAlreadyExists
	}
	if err := r.c.insert(u.ID, *u); err != nil {
		return err
	}
	r.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) Get(_ context.Context, id string) (*domain.User, error) {
	u, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	return r.c.replace(u.ID, *u)
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.c.get(id)
	if err != nil {
		return err
	}
	delete(r.byEmail, strings.ToLower(u.Email))
	return r.c.remove(id)
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	return r.c.all(), nil
}
