package dynamo

import (
	"context"
	"fmt"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

type CheckoutRepository struct {
	client    API
	tableName string
}

func NewCheckoutRepository(client API, tableName string) *CheckoutRepository {
	return &CheckoutRepository{
		client:    client,
		tableName: tableName,
	}
}

func checkoutPK(id string) string {
	return fmt.Sprintf("CHECKOUT#%s", id)
}

func (r *CheckoutRepository) Create(ctx context.Context, c *domain.Checkout) error {
	item, err := marshalItem(checkoutPK(c.ID), c, nil)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condNotExists, repository.ErrAlreadyExists)
}

func (r *CheckoutRepository) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	var c domain.Checkout
	if err := getItem(ctx, r.client, r.tableName, checkoutPK(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CheckoutRepository) Update(ctx context.Context, c *domain.Checkout) error {
	item, err := marshalItem(checkoutPK(c.ID), c, nil)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, condExists, repository.ErrNotFound)
}
