package user

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

// Repository persists and fetches users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByLogin matches either the email (case-insensitive) or the display name.
	GetByLogin(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDisplayName(ctx context.Context, displayName string) (bool, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
}
