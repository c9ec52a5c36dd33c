package auth

import (
	"context"
	"errors"
	"time"

	"github.com/afrishop/storegen/internal/config"
	"github.com/afrishop/storegen/internal/identity"
)

const purposeConfirmEmail = "confirm_email"

// Service issues and validates tokens.
type Service struct {
	cfg    config.Config
	idRepo identity.Repository
}

func NewService(cfg config.Config, idRepo identity.Repository) *Service {
	return &Service{cfg: cfg, idRepo: idRepo}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login issues a token pair for an authenticated user.
func (s *Service) Login(user identity.User) (TokenPair, error) {
	access, _, err := s.sign(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.sign(user, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.cfg.AccessTokenTTL.Seconds())}, nil
}

func (s *Service) sign(user identity.User, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"ver":   user.TokenVersion,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := SignHS256(claims, []byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Refresh verifies the refresh token and returns a new access token if valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := ParseAndVerifyHS256(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", 0, errors.New("invalid refresh token")
	}
	sub, _ := claims["sub"].(string)
	verFloat, _ := claims["ver"].(float64)
	ver := int(verFloat)

	user, err := s.idRepo.FindByID(ctx, sub)
	if err != nil {
		return "", 0, errors.New("user not found")
	}
	if user.TokenVersion != ver {
		return "", 0, errors.New("token version invalidated")
	}

	signed, _, err := s.sign(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout increments token version so older tokens become invalid.
func (s *Service) Logout(ctx context.Context, userID string) error {
	user, err := s.idRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.idRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion+1)
}

// ConfirmationToken signs the token embedded in the confirmation email link.
func (s *Service) ConfirmationToken(user identity.User) (string, error) {
	now := time.Now()
	return SignHS256(map[string]any{
		"sub":     user.ID,
		"purpose": purposeConfirmEmail,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.ConfirmationTokenTTL).Unix(),
	}, s.confirmSecret())
}

// VerifyConfirmation returns the user id carried by a confirmation token.
func (s *Service) VerifyConfirmation(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, s.confirmSecret())
	if err != nil {
		return "", err
	}
	if purpose, _ := claims["purpose"].(string); purpose != purposeConfirmEmail {
		return "", errors.New("not a confirmation token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("confirmation token without subject")
	}
	return sub, nil
}

// confirmSecret keeps confirmation tokens from being accepted as access tokens.
func (s *Service) confirmSecret() []byte {
	return []byte(s.cfg.JWTSecret + ":" + purposeConfirmEmail)
}
