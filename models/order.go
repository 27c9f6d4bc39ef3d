package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is an open-ended enumeration; unknown values are valid.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusPreparing          OrderStatus = "preparing"
	OrderStatusReady              OrderStatus = "ready"
	OrderStatusServed             OrderStatus = "served"
	OrderStatusCompleted          OrderStatus = "completed"
	OrderStatusPaymentInitialized OrderStatus = "payment_initialized"
	OrderStatusPaymentInitiated   OrderStatus = "payment_initiated"
	OrderStatusPaymentFailed      OrderStatus = "payment_failed"
	OrderStatusPaid               OrderStatus = "paid"
)

// Tone is the neutral/semantic color hint used by the presentation layer.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneWaiting Tone = "waiting"
	ToneActive  Tone = "active"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

type StatusDisplay struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Known bool   `json:"known"`
}

var statusDisplays = map[OrderStatus]StatusDisplay{
	OrderStatusPending:            {Label: "Pending", Tone: ToneWaiting, Known: true},
	OrderStatusPreparing:          {Label: "Preparing", Tone: ToneActive, Known: true},
	OrderStatusReady:              {Label: "Ready", Tone: ToneActive, Known: true},
	OrderStatusServed:             {Label: "Served", Tone: ToneSuccess, Known: true},
	OrderStatusCompleted:          {Label: "Completed", Tone: ToneSuccess, Known: true},
	OrderStatusPaymentInitialized: {Label: "Payment initialized", Tone: ToneActive, Known: true},
	OrderStatusPaymentInitiated:   {Label: "Payment initialized", Tone: ToneActive, Known: true},
	OrderStatusPaymentFailed:      {Label: "Payment failed", Tone: ToneDanger, Known: true},
	OrderStatusPaid:               {Label: "Paid", Tone: ToneSuccess, Known: true},
}

// Display never fails: unknown statuses fall back to a neutral rendering of the raw value.
func (s OrderStatus) Display() StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	label := string(s)
	if label == "" {
		label = "Unknown"
	}
	return StatusDisplay{Label: label, Tone: ToneNeutral}
}

type OrderItem struct {
	ItemID   string   `json:"item_id"`
	UserID   string   `json:"user_id,omitempty"`
	UserIDs  []string `json:"user_ids,omitempty"`
	Quantity int      `json:"quantity"`
}

// Order is created from exactly one cart; its items are an immutable snapshot.
type Order struct {
	OrderID     string          `json:"order_id"`
	CartID      string          `json:"cart_id"`
	UserID      string          `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PlaceOrderRequest struct {
	CartID string `json:"cart_id"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
