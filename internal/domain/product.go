package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conditions lists the accepted values for Product.ConditionType.
var Conditions = []string{"New", "Like New", "Good", "Fair", "Poor"}

// Product is a listing owned by a seller.
type Product struct {
	ID                int64               `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Category          string              `json:"category"`
	Price             decimal.Decimal     `json:"price"`
	Quantity          int                 `json:"quantity"`
	ConditionType     string              `json:"conditionType,omitempty"`
	Brand             string              `json:"brand,omitempty"`
	Model             string              `json:"model,omitempty"`
	YearManufactured  *int                `json:"yearManufactured,omitempty"`
	Dimensions        string              `json:"dimensions,omitempty"`
	Weight            decimal.NullDecimal `json:"weight"`
	Material          string              `json:"material,omitempty"`
	Color             string              `json:"color,omitempty"`
	OriginalPackaging bool                `json:"originalPackaging"`
	ManualIncluded    bool                `json:"manualIncluded"`
	WorkingCondition  string              `json:"workingCondition,omitempty"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	IsActive          bool                `json:"isActive"`
	IsSold            bool                `json:"isSold"`
	SellerID          int64               `json:"-"`
	Seller            *SellerInfo         `json:"seller,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// Listed reports whether the product is visible in the public catalog.
func (p Product) Listed() bool {
	return p.IsActive && !p.IsSold
}

// Category is an entry of the fixed category lookup table.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// IsCondition reports whether v is one of Conditions.
func IsCondition(v string) bool {
	for _, c := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}
