package product

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

// ListFilter narrows catalog queries. Empty fields do not filter.
type ListFilter struct {
	Category string
	// Keyword matches a case-insensitive substring of the title.
	Keyword string
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetActive(ctx context.Context, id int64, active bool) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// ListListed returns active, unsold products, newest first.
	ListListed(ctx context.Context, f ListFilter) ([]domain.Product, error)
	// ListBySeller returns every product of a seller including inactive and sold ones.
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error)
}
