package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatusCompleted is the only status a checkout produces.
const PurchaseStatusCompleted = "completed"

// Purchase is the immutable record produced by a checkout.
type Purchase struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Status       string          `json:"status"`
	Items        []PurchaseItem  `json:"items"`
}

// PurchaseItem freezes the price of a product at checkout time.
type PurchaseItem struct {
	ID              int64           `json:"id"`
	PurchaseID      int64           `json:"purchaseId"`
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Subtotal is the frozen price times quantity.
func (i PurchaseItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
