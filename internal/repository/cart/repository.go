package cart

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

type Repository interface {
	// Add inserts a line or increases the quantity of the existing (user, product) line.
	Add(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error)
	GetLine(ctx context.Context, id int64) (*domain.CartLine, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, id int64, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
