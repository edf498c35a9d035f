package purchase

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

// BuildFunc turns the locked cart lines of a user into the purchase to record.
// Returning an error aborts the checkout and nothing is written.
type BuildFunc func(lines []domain.CartLine) (*domain.Purchase, error)

type Repository interface {
	// Checkout records a purchase from the user's cart, decrements stock and
	// empties the cart in a single transaction.
	Checkout(ctx context.Context, userID int64, build BuildFunc) (*domain.Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
}
