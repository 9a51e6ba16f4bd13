package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

func TestProductRepository_FindKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &domain.Product{ID: id}))
	}
	require.NoError(t, repo.Delete(ctx, "a"))

	got, err := repo.Find(ctx, catalog.Query{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestProductRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Product{ID: "missing"}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), repository.ErrNotFound)
}

func TestUserRepository_EmailCaseInsensitiveUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@x.io"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "A@X.io"}), repository.ErrAlreadyExists)

	u, err := repo.GetByEmail(ctx, "A@x.IO")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	require.NoError(t, repo.Delete(ctx, "u1"))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "a@x.io"}))
}

func TestOrderRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &domain.Order{OrderID: "o1", UserID: "u", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &domain.Order{OrderID: "o2", UserID: "u", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &domain.Order{OrderID: "o3", UserID: "v", CreatedAt: now}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Order{OrderID: "o1"}), repository.ErrAlreadyExists)

	orders, err := repo.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].OrderID)
}

func TestCartRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository()

	cart := domain.NewCart("c1", domain.CartOwner{UserID: "u"}, time.Now())
	cart.Add(domain.CartItem{ProductID: "p", Quantity: 1, Price: 3})
	require.NoError(t, repo.Put(ctx, cart))

	got, err := repo.Get(ctx, "USER#u")
	require.NoError(t, err)
	got.Products[0].Quantity = 99

	again, err := repo.Get(ctx, "USER#u")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Products[0].Quantity)
}
