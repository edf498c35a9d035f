package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"secondhand-marketplace/internal/domain"
)

type memoryUsers struct {
	byID    map[int64]domain.User
	updates int
}

func (r *memoryUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) GetByLogin(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUsers) ExistsByDisplayName(_ context.Context, name string) (bool, error) {
	for _, u := range r.byID {
		if u.DisplayName == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUsers) Update(_ context.Context, u domain.User) (*domain.User, error) {
	r.updates++
	r.byID[u.ID] = u
	return &u, nil
}

func newRepo() *memoryUsers {
	return &memoryUsers{byID: map[int64]domain.User{
		1: {ID: 1, DisplayName: "alice", Email: "alice@example.com", IsActive: true},
		2: {ID: 2, DisplayName: "bob", Email: "bob@example.com", IsActive: true},
	}}
}

func ptr(s string) *string { return &s }

func TestProfile_NotFound(t *testing.T) {
	svc := New(newRepo(), nil)
	if _, err := svc.Profile(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	repo := newRepo()
	svc := New(repo, nil)

	u, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{ProfileImageURL: ptr(" https://img/a.png ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.DisplayName != "alice" || u.Email != "alice@example.com" || u.ProfileImageURL != "https://img/a.png" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUpdateProfile_UniquenessOnlyOnChange(t *testing.T) {
	repo := newRepo()
	svc := New(repo, nil)
	ctx := context.Background()

	// Re-submitting the current values is not a conflict.
	if _, err := svc.UpdateProfile(ctx, 1, ProfileUpdate{DisplayName: ptr("alice"), Email: ptr("ALICE@example.com")}); err != nil {
		t.Fatalf("unchanged update: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, 1, ProfileUpdate{DisplayName: ptr("bob")}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected conflict on display name, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, 1, ProfileUpdate{Email: ptr("bob@example.com")}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected conflict on email, got %v", err)
	}

	u, err := svc.UpdateProfile(ctx, 1, ProfileUpdate{Email: ptr("New@Example.com")})
	if err != nil {
		t.Fatalf("email change: %v", err)
	}
	if u.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := New(newRepo(), nil)
	if _, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{DisplayName: ptr("x")}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{Email: ptr("nope")}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
