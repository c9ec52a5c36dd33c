package identity

import (
	"errors"
	"time"
)

var (
	// ErrAlreadyRegistered is returned when the email already has an account.
	ErrAlreadyRegistered = errors.New("user already registered")
	// ErrUserNotFound is returned by repositories for unknown users.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotConfirmed is returned on login before the email was confirmed.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// User is a registered merchant.
type User struct {
	ID             string
	Email          string
	FullName       string
	Phone          string
	Country        string
	PasswordHash   []byte
	Metadata       map[string]string
	EmailConfirmed bool
	TokenVersion   int
	CreatedAt      time.Time
	LastLogin      *time.Time
}

// Registration is the input of Service.Register.
type Registration struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Country  string
	Metadata map[string]string
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}
