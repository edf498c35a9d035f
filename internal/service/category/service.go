package category

import (
	"context"
	"strings"

	"secondhand-marketplace/internal/domain"
	"secondhand-marketplace/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.Exists(ctx, strings.TrimSpace(name))
}

// Upsert inserts a category or updates its sort order.
func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	if len(c.Name) > 50 {
		return nil, domain.Invalid("name", "must be at most 50 characters")
	}
	return s.repo.Upsert(ctx, c)
}
