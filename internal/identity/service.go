package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Service manages identity lifecycle.
type Service struct {
	repo                Repository
	requireConfirmation bool
	now                 func() time.Time
}

// NewService creates a new identity service. When requireConfirmation is
// set, new accounts cannot log in before their email is confirmed.
func NewService(repo Repository, requireConfirmation bool) *Service {
	return &Service{repo: repo, requireConfirmation: requireConfirmation, now: time.Now}
}

// RequiresConfirmation reports whether new accounts start unconfirmed.
func (s *Service) RequiresConfirmation() bool {
	return s.requireConfirmation
}

// Register creates a user and stores a bcrypt hash of the password.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	email := normalizeEmail(reg.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("invalid email address: %q", reg.Email)
	}
	if len(reg.Password) < minPasswordLength {
		return User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:             uuid.New().String(),
		Email:          email,
		FullName:       strings.TrimSpace(reg.FullName),
		Phone:          strings.TrimSpace(reg.Phone),
		Country:        strings.TrimSpace(reg.Country),
		PasswordHash:   hash,
		Metadata:       reg.Metadata,
		EmailConfirmed: !s.requireConfirmation,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies credentials and records the login.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(creds.Email))
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !user.EmailConfirmed {
		return User{}, ErrEmailNotConfirmed
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return User{}, err
	}
	user.LastLogin = &now

	return user, nil
}

// ConfirmEmail marks the user's email as confirmed.
func (s *Service) ConfirmEmail(ctx context.Context, userID string) (User, error) {
	if err := s.repo.MarkEmailConfirmed(ctx, userID); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, userID)
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.repo.FindByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
