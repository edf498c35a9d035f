package session

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

// Repository stores issued sessions. Get returns domain.ErrNotFound for
// unknown or revoked ids.
type Repository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) error
}
