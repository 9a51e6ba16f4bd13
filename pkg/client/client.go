// Package client is a Go client for the storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 25 * time.Second

// Session carries the bearer token of a signed-in user. Callers pass it to every
// authenticated call and drop it on logout.
type Session struct {
	Token string
}

// APIError is a non-2xx response decoded from the server's {"message": ...} body.
// ClientTotal and ServerTotal are set only on a total mismatch response.
type APIError struct {
	StatusCode  int
	Message     string
	ClientTotal *float64
	ServerTotal *float64
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.StatusCode, e.Message)
}

// TotalMismatch reports whether the server rejected a checkout because its
// recomputed total differs from the submitted one.
func (e *APIError) TotalMismatch() bool {
	return e.StatusCode == http.StatusUnprocessableEntity && e.ServerTotal != nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductQuery mirrors the GET /api/products parameters. Zero fields are omitted.
type ProductQuery struct {
	Collection string
	Category   string
	Brands     []string
	Sizes      []string
	Color      string
	Gender     string
	Material   string
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	SortBy     string
	Limit      int
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("collection", q.Collection)
	set("category", q.Category)
	set("brand", strings.Join(q.Brands, ","))
	set("size", strings.Join(q.Sizes, ","))
	set("color", q.Color)
	set("gender", q.Gender)
	set("material", q.Material)
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	set("search", q.Search)
	set("sortBy", q.SortBy)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, *User, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/register", Session{}, req, &resp); err != nil {
		return Session{}, nil, err
	}
	return Session{Token: resp.Token}, resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, *User, error) {
	var resp AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", Session{}, req, &resp); err != nil {
		return Session{}, nil, err
	}
	return Session{Token: resp.Token}, resp.User, nil
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	path := "/api/products"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var products []Product
	if err := c.do(ctx, http.MethodGet, path, Session{}, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, s Session, req CreateProductRequest) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, "/api/products", s, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, s Session, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), s, nil, nil)
}

// GetCart fetches the session user's cart, or the guest cart when s carries no token.
func (c *Client) GetCart(ctx context.Context, s Session, guestID string) (*Cart, error) {
	path := "/api/cart"
	if guestID != "" {
		path += "?" + url.Values{"guestId": {guestID}}.Encode()
	}
	var cart Cart
	if err := c.do(ctx, http.MethodGet, path, s, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartLine selects a product variant for AddToCart.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	GuestID   string `json:"guestId,omitempty"`
}

func (c *Client) AddToCart(ctx context.Context, s Session, line CartLine) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart", s, line, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) CreateCheckout(ctx context.Context, s Session, req CreateCheckoutRequest) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodPost, "/api/checkout", s, req, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) GetCheckout(ctx context.Context, s Session, id string) (*Checkout, error) {
	var co Checkout
	if err := c.do(ctx, http.MethodGet, "/api/checkout/"+url.PathEscape(id), s, nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *Client) MarkPaid(ctx context.Context, s Session, id string, details map[string]any) (*Checkout, error) {
	var co Checkout
	req := PaymentUpdate{PaymentStatus: PaymentStatusPaid, PaymentDetails: details}
	if err := c.do(ctx, http.MethodPut, "/api/checkout/"+url.PathEscape(id)+"/pay", s, req, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// Finalize may be retried; the server returns the existing order on repeat calls.
func (c *Client) Finalize(ctx context.Context, s Session, id string) (*Order, error) {
	var o Order
	if err := c.do(ctx, http.MethodPost, "/api/checkout/"+url.PathEscape(id)+"/finalize", s, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) Confirm(ctx context.Context, s Session, id string, details map[string]any) (*Order, error) {
	var o Order
	req := PaymentUpdate{PaymentStatus: PaymentStatusPaid, PaymentDetails: details}
	if err := c.do(ctx, http.MethodPost, "/api/checkout/"+url.PathEscape(id)+"/confirm", s, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) MyOrders(ctx context.Context, s Session) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", s, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, s Session, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message     string   `json:"message"`
			ClientTotal *float64 `json:"clientTotal"`
			ServerTotal *float64 `json:"serverTotal"`
		}
		if json.Unmarshal(respBody, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
			apiErr.ClientTotal = msg.ClientTotal
			apiErr.ServerTotal = msg.ServerTotal
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
