package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/identity"
	"github.com/afrishop/storegen/internal/logging"
	"github.com/afrishop/storegen/internal/notification"
	"github.com/afrishop/storegen/internal/onboarding"
)

// SignupGateway creates accounts for the onboarding wizard. Depending on the
// identity service's confirmation policy it either mails a confirmation link
// and returns no session, or logs the new user in straight away.
type SignupGateway struct {
	ids       *identity.Service
	tokens    *Service
	notifier  notification.Notifier
	messages  *i18n.Catalog
	publicURL string
	logger    *slog.Logger
}

// NewSignupGateway wires the account creator used by the wizard.
func NewSignupGateway(ids *identity.Service, tokens *Service, notifier notification.Notifier, messages *i18n.Catalog, publicURL string, logger *slog.Logger) *SignupGateway {
	return &SignupGateway{
		ids:       ids,
		tokens:    tokens,
		notifier:  notifier,
		messages:  messages,
		publicURL: publicURL,
		logger:    logging.Component(logger, "auth.signup"),
	}
}

// CreateAccount implements onboarding.AccountCreator.
func (g *SignupGateway) CreateAccount(ctx context.Context, req onboarding.SignupRequest) (onboarding.SignupResult, error) {
	meta := req.Profile.Onboarding
	user, err := g.ids.Register(ctx, identity.Registration{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.Profile.FullName,
		Phone:    req.Profile.Phone,
		Country:  req.Profile.Country,
		Metadata: map[string]string{
			"product_link": meta.ProductLink,
			"marketplace":  string(meta.Marketplace),
			"brand_tone":   meta.BrandTone,
			"brand_color":  meta.BrandColor,
			"shop_name":    meta.ShopName,
			"shop_niche":   meta.ShopNiche,
		},
	})
	if errors.Is(err, identity.ErrAlreadyRegistered) {
		return onboarding.SignupResult{}, fmt.Errorf("%w: %w", onboarding.ErrAlreadyRegistered, err)
	}
	if err != nil {
		return onboarding.SignupResult{}, err
	}

	g.sendWelcome(ctx, req.Locale, user)

	if !user.EmailConfirmed {
		if err := g.sendConfirmation(ctx, req.Locale, user); err != nil {
			g.logger.Error("confirmation email not sent", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		return onboarding.SignupResult{AccountID: user.ID}, nil
	}

	pair, err := g.tokens.Login(user)
	if err != nil {
		return onboarding.SignupResult{}, fmt.Errorf("issue session: %w", err)
	}
	return onboarding.SignupResult{
		AccountID: user.ID,
		Session: &onboarding.Session{
			UserID:       user.ID,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
		},
	}, nil
}

// sendWelcome is best effort: a mail outage must not fail the signup.
func (g *SignupGateway) sendWelcome(ctx context.Context, locale string, user identity.User) {
	if g.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:        notification.KindWelcome,
		Destination: user.Email,
		Subject:     g.messages.Message(locale, i18n.KeyWelcomeEmailSubject, user.FullName),
		Body:        g.messages.Message(locale, i18n.KeyWelcomeEmailBody, user.Metadata["shop_name"]),
	}
	if err := g.notifier.Send(ctx, msg); err != nil {
		g.logger.Warn("welcome email not sent", slog.String("user_id", user.ID), slog.Any("error", err))
	}
}

func (g *SignupGateway) sendConfirmation(ctx context.Context, locale string, user identity.User) error {
	if g.notifier == nil {
		return nil
	}
	token, err := g.tokens.ConfirmationToken(user)
	if err != nil {
		return err
	}
	link := g.publicURL + "/api/v1/auth/confirm?token=" + url.QueryEscape(token)
	return g.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindConfirmEmail,
		Destination: user.Email,
		Subject:     g.messages.Message(locale, i18n.KeyConfirmEmailSubject),
		Body:        g.messages.Message(locale, i18n.KeyConfirmEmailMessage, user.Email) + "\n" + link,
	})
}

var _ onboarding.AccountCreator = (*SignupGateway)(nil)
