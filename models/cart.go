package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line item contributed by one user to a shared cart.
// A line item with quantity zero does not exist; it is deleted instead.
type CartItem struct {
	CartItemID string          `json:"cart_item_id"`
	CartID     string          `json:"cart_id"`
	ItemID     string          `json:"item_id"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name,omitempty"`
	Quantity   int             `json:"quantity"`
	ItemPrice  decimal.Decimal `json:"item_price"`
	Notes      string          `json:"notes,omitempty"`
	Item       *MenuItem       `json:"item,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Subtotal returns item_price * quantity.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.ItemPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is the shared aggregate of a table. BillAmount is always derived.
type Cart struct {
	CartID        string     `json:"cart_id"`
	PaymentStatus string     `json:"payment_status"`
	Items         []CartItem `json:"items"`
}

// Total is the sum of item_price * quantity over all line items.
func (c Cart) Total() decimal.Decimal {
	return SumCartItems(c.Items)
}

func SumCartItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func CountCartItems(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

type CreateCartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type UpdateCartItemRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// CartSnapshot is the denormalized copy cached on the client for instant badge counts.
type CartSnapshot struct {
	CartID     string     `json:"cart_id"`
	Items      []CartItem `json:"items"`
	ItemCount  int        `json:"item_count"`
	CapturedAt time.Time  `json:"captured_at"`
}
