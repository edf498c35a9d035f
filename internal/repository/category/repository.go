package category

import (
	"context"

	"secondhand-marketplace/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Exists(ctx context.Context, name string) (bool, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
