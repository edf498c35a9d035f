package dashboard

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"secondhand-marketplace/internal/domain"
	userrepo "secondhand-marketplace/internal/repository/user"
	"secondhand-marketplace/internal/service/auth"
)

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName     *string `json:"displayName"`
	Email           *string `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// Service serves the signed-in user's own profile.
type Service struct {
	users  userrepo.Repository
	logger *log.Logger
}

func New(users userrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{users: users, logger: logger}
}

func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", userID)
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of in. Uniqueness is only checked
// for values that actually change.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if err := auth.ValidateDisplayName(name); err != nil {
			return nil, err
		}
		if name != u.DisplayName {
			taken, err := s.users.ExistsByDisplayName(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Errorf(domain.ErrAlreadyExists, "display name is already taken")
			}
			u.DisplayName = name
		}
	}

	if in.Email != nil {
		email, err := auth.NormalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(email, u.Email) {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Errorf(domain.ErrAlreadyExists, "email is already registered")
			}
			u.Email = email
		}
	}

	if in.ProfileImageURL != nil {
		u.ProfileImageURL = strings.TrimSpace(*in.ProfileImageURL)
	}

	updated, err := s.users.Update(ctx, *u)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("dashboard: updated profile user_id=%d", userID)
	return updated, nil
}
