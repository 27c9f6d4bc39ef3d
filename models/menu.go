package models

import "github.com/shopspring/decimal"

// MenuItem is an immutable catalog entry owned by the backend.
type MenuItem struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	ItemDesc    string          `json:"item_desc,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	EstPrepTime int             `json:"est_prep_time"`
	Description string          `json:"description"`
	Images      string          `json:"images"`
	IsAvailable bool            `json:"is_available"`
}
