package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"secondhand-marketplace/internal/domain"
	sessionrepo "secondhand-marketplace/internal/repository/session"
	userrepo "secondhand-marketplace/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when the identifier/password pair does not match.
	ErrInvalidCredentials = domain.Errorf(domain.ErrUnauthorized, "invalid credentials")
	// ErrAccountInactive is returned when logging into a deactivated account.
	ErrAccountInactive = domain.Errorf(domain.ErrUnauthorized, "account is inactive")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = domain.Errorf(domain.ErrUnauthorized, "invalid or expired token")
)

// Service handles registration, login and session validation.
type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	passwordMin int
	logger      *log.Logger
}

// New creates a Service. Tokens are signed with secret and live for ttl.
func New(users userrepo.Repository, sessions sessionrepo.Repository, secret []byte, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(sessions, secret, ttl),
		passwordMin: 8,
		logger:      logger,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	DisplayName     string `json:"displayName" binding:"required,min=3,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register creates a new active user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	displayName := strings.TrimSpace(in.DisplayName)
	if err := ValidateDisplayName(displayName); err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Errorf(domain.ErrAlreadyExists, "email is already registered")
	}
	taken, err = s.users.ExistsByDisplayName(ctx, displayName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Errorf(domain.ErrAlreadyExists, "display name is already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, domain.User{
		DisplayName:     displayName,
		Email:           email,
		PasswordHash:    string(hashed),
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
		IsActive:        true,
	})
	if err != nil {
		// A concurrent registration can still trip the unique indexes.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.Errorf(domain.ErrAlreadyExists, "email or display name is already taken")
		}
		return nil, err
	}
	s.logger.Printf("auth: registered user_id=%d", u.ID)
	return u, nil
}

// Login validates credentials and issues a session token.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	password = strings.TrimSpace(password)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	token, sess, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Printf("auth: login user_id=%d session_expires=%s", u.ID, sess.ExpiresAt.Format(time.RFC3339))
	return &LoginResult{User: u, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Authenticate returns the active user bound to a valid token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}
	return u, nil
}

// Logout revokes the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// LogoutAll revokes every session of the user behind token, signing them out
// on all devices.
func (s *Service) LogoutAll(ctx context.Context, token string) error {
	userID, err := s.tokens.RevokeAll(ctx, token)
	if err != nil {
		return err
	}
	s.logger.Printf("auth: revoked all sessions user_id=%d", userID)
	return nil
}

// ValidateDisplayName enforces the display name length bounds.
func ValidateDisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 100 {
		return domain.Invalid("displayName", "must be between 3 and 100 characters")
	}
	return nil
}

// NormalizeEmail trims and lower-cases email and checks its format.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.Invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "is not a valid address")
	}
	return email, nil
}

func validatePassword(p string, min int) error {
	if utf8.RuneCountInString(p) < min {
		return domain.Invalid("password", "must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return domain.Invalid("password", "must contain at least 1 uppercase letter, 1 lowercase letter, 1 number and 1 special character")
	}
	return nil
}
