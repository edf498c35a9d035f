package seed

import (
	"context"
	"testing"

	"secondhand-marketplace/internal/domain"
	authsvc "secondhand-marketplace/internal/service/auth"
	productsvc "secondhand-marketplace/internal/service/product"
)

type memoryStore struct {
	users      map[string]*domain.User
	categories map[string]domain.Category
	listings   map[int64][]domain.Product
	nextID     int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      map[string]*domain.User{},
		categories: map[string]domain.Category{},
		listings:   map[int64][]domain.Product{},
	}
}

func (m *memoryStore) Register(_ context.Context, in authsvc.RegisterInput) (*domain.User, error) {
	if _, ok := m.users[in.Email]; ok {
		return nil, domain.Errorf(domain.ErrAlreadyExists, "email already registered")
	}
	m.nextID++
	u := &domain.User{ID: m.nextID, DisplayName: in.DisplayName, Email: in.Email, IsActive: true}
	m.users[in.Email] = u
	return u, nil
}

func (m *memoryStore) GetByLogin(_ context.Context, identifier string) (*domain.User, error) {
	u, ok := m.users[identifier]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memoryStore) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	m.categories[c.Name] = c
	return &c, nil
}

func (m *memoryStore) ListBySeller(_ context.Context, sellerID int64) ([]domain.Product, error) {
	return m.listings[sellerID], nil
}

func (m *memoryStore) Create(_ context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error) {
	if _, ok := m.categories[in.Category]; !ok {
		return nil, domain.Invalid("category", "is unknown")
	}
	p := domain.Product{Title: in.Title, Category: in.Category, Price: in.Price, SellerID: sellerID, IsActive: true}
	m.listings[sellerID] = append(m.listings[sellerID], p)
	return &p, nil
}

func (m *memoryStore) deps() Deps {
	return Deps{Auth: m, Users: m, Categories: m, Listings: m}
}

func (m *memoryStore) listingCount() int {
	n := 0
	for _, ps := range m.listings {
		n += len(ps)
	}
	return n
}

func TestApply(t *testing.T) {
	store := newMemoryStore()
	if err := Apply(context.Background(), store.deps(), nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(store.categories) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(store.categories))
	}
	if store.categories["Electronics"].SortOrder != 1 || store.categories["Other"].SortOrder != 10 {
		t.Fatalf("expected migration sort order 1..10, got Electronics=%d Other=%d",
			store.categories["Electronics"].SortOrder, store.categories["Other"].SortOrder)
	}
	if len(store.users) != 2 {
		t.Fatalf("expected 2 demo users, got %d", len(store.users))
	}
	if store.listingCount() != 4 {
		t.Fatalf("expected 4 demo listings, got %d", store.listingCount())
	}
}

func TestApply_Idempotent(t *testing.T) {
	store := newMemoryStore()
	for i := 0; i < 2; i++ {
		if err := Apply(context.Background(), store.deps(), nil); err != nil {
			t.Fatalf("apply run %d: %v", i+1, err)
		}
	}
	if len(store.users) != 2 {
		t.Fatalf("expected 2 demo users after rerun, got %d", len(store.users))
	}
	if store.listingCount() != 4 {
		t.Fatalf("expected listings not to be duplicated, got %d", store.listingCount())
	}
}

func TestDemoListingsAreValid(t *testing.T) {
	for _, us := range demoUsers() {
		for _, in := range us.Listings {
			if !domain.IsCondition(in.ConditionType) {
				t.Fatalf("listing %q has unknown condition %q", in.Title, in.ConditionType)
			}
			if !in.Price.IsPositive() || in.Quantity <= 0 {
				t.Fatalf("listing %q has invalid price or quantity", in.Title)
			}
		}
	}
	if err := authsvc.ValidateDisplayName("demo_seller"); err != nil {
		t.Fatalf("demo display name rejected: %v", err)
	}
}
