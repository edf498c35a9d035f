package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"secondhand-marketplace/internal/domain"
	sessionrepo "secondhand-marketplace/internal/repository/session"
)

// tokenManager issues HS256 tokens whose jti names a stored session, so a
// token stays valid only while both its signature and its session do.
type tokenManager struct {
	repo   sessionrepo.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenManager(repo sessionrepo.Repository, secret []byte, ttl time.Duration) *tokenManager {
	return &tokenManager{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, userID int64) (string, domain.Session, error) {
	now := m.now()
	sess := domain.Session{
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl).UTC().Truncate(time.Second),
		CreatedAt: now.UTC(),
	}
	for i := 0; i < 5; i++ {
		sess.ID = uuid.NewString()
		err := m.repo.Create(ctx, sess)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", domain.Session{}, err
		}

		t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		})
		signed, err := t.SignedString(m.secret)
		if err != nil {
			return "", domain.Session{}, fmt.Errorf("sign token: %w", err)
		}
		return signed, sess, nil
	}
	return "", domain.Session{}, errors.New("session id collision")
}

// Parse checks the signature and expiry of token and returns its session id
// and user id without consulting the store.
func (m *tokenManager) Parse(token string) (string, int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return "", 0, ErrInvalidToken
	}
	return claims.ID, userID, nil
}

func (m *tokenManager) Validate(ctx context.Context, token string) (*domain.Session, error) {
	id, userID, err := m.Parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := m.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrInvalidToken
	}
	if sess.Expired(m.now()) {
		_ = m.repo.Delete(ctx, id)
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// RevokeAll drops every session of the user owning token.
func (m *tokenManager) RevokeAll(ctx context.Context, token string) (int64, error) {
	sess, err := m.Validate(ctx, token)
	if err != nil {
		return 0, err
	}
	if err := m.repo.DeleteByUser(ctx, sess.UserID); err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	id, _, err := m.Parse(token)
	if err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}
