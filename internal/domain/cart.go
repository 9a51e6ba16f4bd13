package domain

import (
	"time"
)

type CartItem struct {
	ProductID string  `json:"productId" bson:"product_id" dynamodbav:"product_id"`
	Name      string  `json:"name" bson:"name" dynamodbav:"name"`
	Image     string  `json:"image" bson:"image" dynamodbav:"image"`
	Price     float64 `json:"price" bson:"price" dynamodbav:"price"`
	Size      string  `json:"size" bson:"size" dynamodbav:"size"`
	Color     string  `json:"color" bson:"color" dynamodbav:"color"`
	Quantity  int     `json:"quantity" bson:"quantity" dynamodbav:"quantity"`
}

func (i CartItem) UnitPrice() float64 { return i.Price }
func (i CartItem) Units() int         { return i.Quantity }

// Matches reports whether the line holds the given product variant.
func (i CartItem) Matches(productID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// CartOwner identifies who a cart belongs to: a signed-in user or a guest session.
type CartOwner struct {
	UserID  string
	GuestID string
}

// Key is the storage key of the owner's cart. User ownership wins over guest ownership.
func (o CartOwner) Key() string {
	if o.UserID != "" {
		return "USER#" + o.UserID
	}
	return "GUEST#" + o.GuestID
}

func (o CartOwner) Valid() bool {
	return o.UserID != "" || o.GuestID != ""
}

type Cart struct {
	ID         string     `json:"_id" bson:"_id" dynamodbav:"id"`
	OwnerKey   string     `json:"-" bson:"owner_key" dynamodbav:"owner_key"`
	UserID     string     `json:"user,omitempty" bson:"user,omitempty" dynamodbav:"user,omitempty"`
	GuestID    string     `json:"guestId,omitempty" bson:"guest_id,omitempty" dynamodbav:"guest_id,omitempty"`
	Products   []CartItem `json:"products" bson:"products" dynamodbav:"products"`
	TotalPrice float64    `json:"totalPrice" bson:"total_price" dynamodbav:"total_price"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updated_at" dynamodbav:"updated_at"`
}

func NewCart(id string, owner CartOwner, now time.Time) *Cart {
	c := &Cart{
		ID:        id,
		Products:  []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.SetOwner(owner)
	return c
}

func (c *Cart) SetOwner(owner CartOwner) {
	c.UserID = owner.UserID
	c.GuestID = ""
	if owner.UserID == "" {
		c.GuestID = owner.GuestID
	}
	c.OwnerKey = owner.Key()
}

// Find returns the index of the matching line, or -1.
func (c *Cart) Find(productID, size, color string) int {
	for i, item := range c.Products {
		if item.Matches(productID, size, color) {
			return i
		}
	}
	return -1
}

// Add increments a matching line or appends the item as a new line.
func (c *Cart) Add(item CartItem) {
	if i := c.Find(item.ProductID, item.Size, item.Color); i >= 0 {
		c.Products[i].Quantity += item.Quantity
	} else {
		c.Products = append(c.Products, item)
	}
	c.Recalculate()
}

func (c *Cart) RemoveAt(i int) {
	c.Products = append(c.Products[:i], c.Products[i+1:]...)
	c.Recalculate()
}

// Recalculate refreshes the subtotal from the line items.
func (c *Cart) Recalculate() {
	c.TotalPrice = Total(c.Products)
}
