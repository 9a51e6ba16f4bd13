package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/events"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
)

type recordingPublisher struct {
	mu            sync.Mutex
	orders        []events.OrderCreatedEvent
	compensations []events.CompensationEvent
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, e events.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, e)
	return nil
}

func (p *recordingPublisher) PublishCompensation(_ context.Context, e events.CompensationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compensations = append(p.compensations, e)
	return nil
}

type failingOrders struct {
	repository.OrderRepository
}

func (failingOrders) Create(context.Context, *domain.Order) error {
	return errors.New("table unavailable")
}

type fixture struct {
	repos     repository.Repositories
	products  *ProductService
	carts     *CartService
	checkouts *CheckoutService
	orders    *OrderService
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.New()
	logger := zap.NewNop()
	pub := &recordingPublisher{}
	carts := NewCartService(repos.Carts, repos.Products, logger)
	return &fixture{
		repos:     repos,
		products:  NewProductService(repos.Products, logger),
		carts:     carts,
		checkouts: NewCheckoutService(repos.Checkouts, repos.Orders, repos.Products, carts, pub, logger),
		orders:    NewOrderService(repos.Orders, logger),
		publisher: pub,
	}
}

func (f *fixture) seedProduct(t *testing.T, id string, price float64) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:          id,
		Name:        "Product " + id,
		Description: "desc",
		Price:       price,
		Category:    "Top Wear",
		Gender:      "Men",
		Images:      []domain.ProductImage{{URL: "https://img/" + id}},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p
}

func checkoutRequest(total float64) domain.CreateCheckoutRequest {
	return domain.CreateCheckoutRequest{
		CheckoutItems: []domain.CheckoutItem{
			{ProductID: "p1", Quantity: 2, Size: "M"},
			{ProductID: "p2", Quantity: 1},
		},
		ShippingAddress: domain.ShippingAddress{Address: "1 Main", City: "Town", PostalCode: "100", Country: "KR"},
		PaymentMethod:   "card",
		TotalPrice:      total,
	}
}

func TestProductService_UpdateKeepsExplicitFalse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.products.Create(ctx, "admin", domain.CreateProductRequest{
		Name: "Tee", Description: "d", Price: 10, SKU: "T-1", Category: "Top Wear", IsFeatured: true,
	})
	require.NoError(t, err)

	featured := false
	updated, err := f.products.Update(ctx, p.ID, domain.ProductPatch{IsFeatured: &featured})
	require.NoError(t, err)
	assert.False(t, updated.IsFeatured)

	stored, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsFeatured)
	assert.Equal(t, "Tee", stored.Name)
}

func TestProductService_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, "missing"), ErrProductNotFound)
	_, err = f.products.Similar(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_BestSellerAndSimilar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.BestSeller(ctx)
	assert.ErrorIs(t, err, ErrNoBestSeller)

	a := f.seedProduct(t, "a", 10)
	b := f.seedProduct(t, "b", 20)
	b.Rating = 4.5
	require.NoError(t, f.repos.Products.Update(ctx, b))

	best, err := f.products.BestSeller(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", best.ID)

	similar, err := f.products.Similar(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "b", similar[0].ID)

	all, err := f.products.List(ctx, catalog.Query{Sort: catalog.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
}

func TestCartService_AddUpdateRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	owner := domain.CartOwner{GuestID: NewGuestID()}

	c, err := f.carts.Add(ctx, owner, CartLine{ProductID: "p1", Size: "M", Quantity: 1})
	require.NoError(t, err)
	c, err = f.carts.Add(ctx, owner, CartLine{ProductID: "p1", Size: "M", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, 3, c.Products[0].Quantity)
	assert.Equal(t, 60.0, c.TotalPrice)
	assert.Equal(t, "https://img/p1", c.Products[0].Image)

	c, err = f.carts.Update(ctx, owner, CartLine{ProductID: "p1", Size: "M", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.TotalPrice)

	_, err = f.carts.Remove(ctx, owner, CartLine{ProductID: "p1", Size: "L"})
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	c, err = f.carts.Update(ctx, owner, CartLine{ProductID: "p1", Size: "M", Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, c.Products)
	assert.Zero(t, c.TotalPrice)
}

func TestCartService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)

	_, err := f.carts.Add(ctx, domain.CartOwner{}, CartLine{ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, ErrMissingCartOwner)

	owner := domain.CartOwner{UserID: "u1"}
	_, err = f.carts.Add(ctx, owner, CartLine{ProductID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = f.carts.Add(ctx, owner, CartLine{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = f.carts.Get(ctx, owner)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_Merge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)
	guest := domain.CartOwner{GuestID: "guest_1"}
	user := domain.CartOwner{UserID: "u1"}

	_, err := f.carts.Add(ctx, guest, CartLine{ProductID: "p1", Size: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, guest, CartLine{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, user, CartLine{ProductID: "p1", Size: "M", Quantity: 1})
	require.NoError(t, err)

	merged, err := f.carts.Merge(ctx, "u1", "guest_1")
	require.NoError(t, err)
	require.Len(t, merged.Products, 2)
	assert.Equal(t, 2, merged.Products[0].Quantity)
	assert.Equal(t, 45.0, merged.TotalPrice)

	_, err = f.carts.Get(ctx, guest)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// A second merge finds no guest cart and returns the user's cart.
	again, err := f.carts.Merge(ctx, "u1", "guest_1")
	require.NoError(t, err)
	assert.Equal(t, merged.ID, again.ID)
}

func TestCartService_MergeIntoNewUserCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)

	guestCart, err := f.carts.Add(ctx, domain.CartOwner{GuestID: "guest_2"}, CartLine{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	merged, err := f.carts.Merge(ctx, "u2", "guest_2")
	require.NoError(t, err)
	assert.NotEqual(t, guestCart.ID, merged.ID)
	assert.Equal(t, "u2", merged.UserID)
	assert.Empty(t, merged.GuestID)
}

func TestCheckoutService_CreateComputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)
	assert.Equal(t, 45.0, c.TotalPrice)
	assert.Equal(t, "pending", c.PaymentStatus)
	assert.Equal(t, "Product p1", c.CheckoutItems[0].Name)

	c, err = f.checkouts.Create(ctx, "u1", checkoutRequest(45))
	require.NoError(t, err)
	assert.Equal(t, 45.0, c.TotalPrice)
}

func TestCheckoutService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	_, err := f.checkouts.Create(ctx, "u1", checkoutRequest(50))
	var mismatch *TotalMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 50.0, mismatch.Client)
	assert.Equal(t, 45.0, mismatch.Server)

	empty := checkoutRequest(0)
	empty.CheckoutItems = nil
	_, err = f.checkouts.Create(ctx, "u1", empty)
	assert.ErrorIs(t, err, ErrEmptyCheckout)

	unknown := checkoutRequest(0)
	unknown.CheckoutItems[0].ProductID = "ghost"
	_, err = f.checkouts.Create(ctx, "u1", unknown)
	assert.ErrorIs(t, err, ErrInvalidProductReference)
}

func TestCheckoutService_PayAndFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)
	_, err := f.carts.Add(ctx, domain.CartOwner{UserID: "u1"}, CartLine{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(45))
	require.NoError(t, err)

	_, _, err = f.checkouts.Finalize(ctx, "u1", c.ID, "req-1")
	assert.ErrorIs(t, err, ErrCheckoutNotPaid)

	_, err = f.checkouts.Pay(ctx, "u1", c.ID, domain.PaymentUpdate{PaymentStatus: "failed"})
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	paid, err := f.checkouts.Pay(ctx, "u1", c.ID, domain.PaymentUpdate{
		PaymentStatus:  "paid",
		PaymentDetails: map[string]any{"id": "PAY-1"},
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)

	order, created, err := f.checkouts.Finalize(ctx, "u1", c.ID, "req-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, OrderIDFor(c.ID), order.OrderID)
	assert.Equal(t, 45.0, order.TotalPrice)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Len(t, order.OrderItems, 2)

	_, err = f.carts.Get(ctx, domain.CartOwner{UserID: "u1"})
	assert.ErrorIs(t, err, ErrCartNotFound)

	require.Len(t, f.publisher.orders, 1)
	assert.Equal(t, order.OrderID, f.publisher.orders[0].OrderID)
	assert.Equal(t, "req-1", f.publisher.orders[0].RequestID)

	stored, err := f.checkouts.Get(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsFinalized)
	assert.Equal(t, order.OrderID, stored.OrderID)
}

func TestCheckoutService_FinalizeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)
	first, created, err := f.checkouts.Confirm(ctx, "u1", c.ID, domain.PaymentUpdate{PaymentStatus: "paid"}, "r1")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.checkouts.Finalize(ctx, "u1", c.ID, "r2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.OrderID, second.OrderID)

	orders, err := f.orders.MyOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Len(t, f.publisher.orders, 1)
}

func TestCheckoutService_ConcurrentFinalizeCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)
	_, err = f.checkouts.Pay(ctx, "u1", c.ID, domain.PaymentUpdate{PaymentStatus: "paid"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.checkouts.Finalize(ctx, "u1", c.ID, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Len(t, f.publisher.orders, 1)
}

func TestCheckoutService_ForeignCheckoutIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)

	_, err = f.checkouts.Get(ctx, "u2", c.ID)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
	_, err = f.checkouts.Pay(ctx, "u2", c.ID, domain.PaymentUpdate{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestCheckoutService_CompensatesWhenOrderCreateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)
	f.checkouts.orders = failingOrders{f.repos.Orders}

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)
	_, _, err = f.checkouts.Confirm(ctx, "u1", c.ID, domain.PaymentUpdate{PaymentStatus: "paid"}, "r1")
	require.Error(t, err)

	require.Len(t, f.publisher.compensations, 1)
	assert.Equal(t, c.ID, f.publisher.compensations[0].CheckoutID)
	assert.Equal(t, 45.0, f.publisher.compensations[0].TotalPrice)
	assert.Empty(t, f.publisher.orders)

	stored, err := f.checkouts.Get(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.False(t, stored.IsFinalized)
}

func TestOrderService_AccessAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 20)
	f.seedProduct(t, "p2", 5)

	c, err := f.checkouts.Create(ctx, "u1", checkoutRequest(0))
	require.NoError(t, err)
	order, _, err := f.checkouts.Confirm(ctx, "u1", c.ID, domain.PaymentUpdate{PaymentStatus: "paid"}, "")
	require.NoError(t, err)

	_, err = f.orders.Get(ctx, auth.Principal{UserID: "u1"}, order.OrderID)
	assert.NoError(t, err)
	_, err = f.orders.Get(ctx, auth.Principal{UserID: "u2"}, order.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.orders.Get(ctx, auth.Principal{UserID: "a", Role: domain.RoleAdmin}, order.OrderID)
	assert.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, order.OrderID, "Lost")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	updated, err := f.orders.UpdateStatus(ctx, order.OrderID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, updated.IsDelivered)
	assert.NotNil(t, updated.DeliveredAt)

	require.NoError(t, f.orders.Delete(ctx, order.OrderID))
	assert.ErrorIs(t, f.orders.Delete(ctx, order.OrderID), ErrOrderNotFound)

	// The deleted order is not silently recreated.
	_, _, err = f.checkouts.Finalize(ctx, "u1", c.ID, "")
	assert.ErrorIs(t, err, ErrCheckoutAlreadyFinalized)
}

func TestUserService(t *testing.T) {
	repos := memory.New()
	tokens := auth.NewTokens("0123456789abcdef0123", time.Hour)
	users := NewUserService(repos.Users, tokens, zap.NewNop())
	ctx := context.Background()

	resp, err := users.Register(ctx, domain.RegisterRequest{Name: "Kim", Email: "Kim@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleCustomer, resp.User.Role)

	p, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, p.UserID)

	_, err = users.Register(ctx, domain.RegisterRequest{Name: "Dup", Email: "kim@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = users.Login(ctx, domain.LoginRequest{Email: "KIM@example.com", Password: "secret1"})
	assert.NoError(t, err)
	_, err = users.Login(ctx, domain.LoginRequest{Email: "kim@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	admin := domain.RoleAdmin
	updated, err := users.Update(ctx, resp.User.ID, domain.UserPatch{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "Kim", updated.Name)

	bogus := domain.Role("root")
	_, err = users.Update(ctx, resp.User.ID, domain.UserPatch{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)

	require.NoError(t, users.Delete(ctx, resp.User.ID))
	_, err = users.Profile(ctx, resp.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repos := memory.New()
	users := NewUserService(repos.Users, auth.NewTokens("0123456789abcdef0123", time.Hour), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, users.EnsureAdmin(ctx, "admin@example.com", "adminpass"))
	require.NoError(t, users.EnsureAdmin(ctx, "admin@example.com", "other"))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleAdmin, list[0].Role)

	_, err = users.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	assert.NoError(t, err)
}
