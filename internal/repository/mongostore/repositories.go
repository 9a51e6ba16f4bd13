package mongostore

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type CartRepository struct {
	docs docs[domain.Cart]
}

func NewCartRepository(coll *mongo.Collection) *CartRepository {
	return &CartRepository{docs: docs[domain.Cart]{coll: coll}}
}

func byOwner(ownerKey string) bson.D {
	return bson.D{{Key: "owner_key", Value: ownerKey}}
}

func (r *CartRepository) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	return r.docs.findOne(ctx, byOwner(ownerKey))
}

func (r *CartRepository) Put(ctx context.Context, c *domain.Cart) error {
	if _, err := r.docs.coll.ReplaceOne(ctx, byOwner(c.OwnerKey), c, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", r.docs.coll.Name(), err)
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, ownerKey string) error {
	return r.docs.deleteOne(ctx, byOwner(ownerKey))
}

type CheckoutRepository struct {
	docs docs[domain.Checkout]
}

func NewCheckoutRepository(coll *mongo.Collection) *CheckoutRepository {
	return &CheckoutRepository{docs: docs[domain.Checkout]{coll: coll}}
}

func (r *CheckoutRepository) Create(ctx context.Context, c *domain.Checkout) error {
	return r.docs.insert(ctx, c)
}

func (r *CheckoutRepository) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	return r.docs.findOne(ctx, byID(id))
}

func (r *CheckoutRepository) Update(ctx context.Context, c *domain.Checkout) error {
	return r.docs.replace(ctx, c.ID, c)
}

type OrderRepository struct {
	docs docs[domain.Order]
}

func NewOrderRepository(coll *mongo.Collection) *OrderRepository {
	return &OrderRepository{docs: docs[domain.Order]{coll: coll}}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.docs.insert(ctx, o)
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	return r.docs.findOne(ctx, byID(id))
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	return r.docs.replace(ctx, o.OrderID, o)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.docs.deleteOne(ctx, byID(id))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.docs.find(ctx, bson.D{{Key: "user", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.docs.find(ctx, nil)
}

type UserRepository struct {
	docs docs[domain.User]
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{docs: docs[domain.User]{coll: coll}}
}

// Create relies on the unique email index for ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.docs.insert(ctx, u)
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.docs.findOne(ctx, byID(id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.docs.findOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(email)}})
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.docs.replace(ctx, u.ID, u)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.docs.deleteOne(ctx, byID(id))
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.docs.find(ctx, nil)
}
