package dynamo

import (
	"context"
	"fmt"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type CartRepository struct {
	client    API
	tableName string
}

func NewCartRepository(client API, tableName string) *CartRepository {
	return &CartRepository{
		client:    client,
		tableName: tableName,
	}
}

func cartPK(ownerKey string) string {
	return fmt.Sprintf("CART#%s", ownerKey)
}

func (r *CartRepository) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	var c domain.Cart
	if err := getItem(ctx, r.client, r.tableName, cartPK(ownerKey), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) Put(ctx context.Context, c *domain.Cart) error {
	item, err := marshalItem(cartPK(c.OwnerKey), c, nil)
	if err != nil {
		return err
	}
	return putItem(ctx, r.client, r.tableName, item, "", nil)
}

func (r *CartRepository) Delete(ctx context.Context, ownerKey string) error {
	return deleteItem(ctx, r.client, r.tableName, cartPK(ownerKey))
}
