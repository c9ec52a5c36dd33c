package onboarding

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/logging"
)

var (
	// ErrAlreadyRegistered is returned by an AccountCreator when the email is taken.
	ErrAlreadyRegistered = errors.New("user already registered")
	// ErrNotReady is returned when submit is attempted before step 4 is satisfied.
	ErrNotReady = errors.New("wizard is not ready to submit")
	// ErrSubmissionInProgress is returned while another request holds the session's guard.
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// Metadata is the onboarding context attached to the new account's profile.
type Metadata struct {
	ProductLink string      `json:"product_link"`
	Marketplace Marketplace `json:"marketplace"`
	BrandTone   string      `json:"brand_tone"`
	BrandColor  string      `json:"brand_color"`
	ShopName    string      `json:"shop_name"`
	ShopNiche   string      `json:"shop_niche"`
}

// Profile is the non-credential part of a signup.
type Profile struct {
	FullName   string   `json:"full_name"`
	Phone      string   `json:"phone"`
	Country    string   `json:"country"`
	Onboarding Metadata `json:"onboarding"`
}

// SignupRequest is what the account service receives.
type SignupRequest struct {
	Email    string
	Password string
	Profile  Profile
	// Locale selects the language of the emails sent on signup.
	Locale string
}

// Session is an authenticated session returned when no email confirmation is needed.
type Session struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SignupResult is the account service's answer. A nil Session means the
// account awaits email confirmation.
type SignupResult struct {
	AccountID string
	Session   *Session
}

// AccountCreator creates accounts.
type AccountCreator interface {
	CreateAccount(ctx context.Context, req SignupRequest) (SignupResult, error)
}

// OutcomeKind classifies a submission.
type OutcomeKind string

const (
	OutcomeEmailConfirmationRequired OutcomeKind = "email_confirmation_required"
	OutcomeSessionEstablished        OutcomeKind = "session_established"
	OutcomeFailed                    OutcomeKind = "failed"
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	AccountID string      `json:"account_id,omitempty"`
	Session   *Session    `json:"session,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// Succeeded reports whether the account was created.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeEmailConfirmationRequired || o.Kind == OutcomeSessionEstablished
}

// BuildSignupRequest gathers the wizard's data into the request sent to the
// account service.
func BuildSignupRequest(s State) SignupRequest {
	marketplace, _ := DetectMarketplace(s.Product.ProductLink)
	return SignupRequest{
		Email:    s.Account.Email,
		Password: s.Account.Password,
		Profile: Profile{
			FullName: s.Account.FullName,
			Phone:    s.Account.Phone,
			Country:  s.Account.Country,
			Onboarding: Metadata{
				ProductLink: s.Product.ProductLink,
				Marketplace: marketplace,
				BrandTone:   s.Brand.Tone,
				BrandColor:  s.Brand.Color,
				ShopName:    s.Shop.Name,
				ShopNiche:   s.Shop.Niche,
			},
		},
	}
}

// Submitter sends the collected data to the account service, at most one
// call in flight per key.
type Submitter struct {
	accounts AccountCreator
	lock     Lock
	messages *i18n.Catalog
	logger   *slog.Logger
}

// NewSubmitter wires a submitter. A nil lock falls back to an in-process one.
func NewSubmitter(accounts AccountCreator, lock Lock, messages *i18n.Catalog, logger *slog.Logger) *Submitter {
	if lock == nil {
		lock = NewLocalLock()
	}
	if messages == nil {
		messages = i18n.NewCatalog("")
	}
	return &Submitter{
		accounts: accounts,
		lock:     lock,
		messages: messages,
		logger:   logging.Component(logger, "onboarding.submitter"),
	}
}

// Submitting reports whether a submission for key is in flight.
func (s *Submitter) Submitting(ctx context.Context, key string) (bool, error) {
	return s.lock.Locked(ctx, key)
}

// Hold takes the guard for key and returns its release. A key already held
// yields ErrSubmissionInProgress.
func (s *Submitter) Hold(ctx context.Context, key string) (func(), error) {
	token, acquired, err := s.lock.TryLock(ctx, key)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmissionInProgress
	}
	return func() {
		if err := s.lock.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Error("release submit guard", slog.String("key", key), slog.Any("error", err))
		}
	}, nil
}

// Submit performs a single account creation attempt. Account service
// failures are reported as an OutcomeFailed value; the returned error is
// reserved for refusals (not ready, already in flight) and guard failures.
func (s *Submitter) Submit(ctx context.Context, key, locale string, state State) (Outcome, error) {
	if state.Current != LastStep || !Satisfied(StepAccount, state) {
		return Outcome{}, ErrNotReady
	}
	release, err := s.Hold(ctx, key)
	if err != nil {
		return Outcome{}, err
	}
	defer release()
	return s.SubmitHeld(ctx, locale, state)
}

// SubmitHeld is Submit for a caller that already holds the guard through Hold.
func (s *Submitter) SubmitHeld(ctx context.Context, locale string, state State) (Outcome, error) {
	if state.Current != LastStep || !Satisfied(StepAccount, state) {
		return Outcome{}, ErrNotReady
	}
	req := BuildSignupRequest(state)
	req.Locale = locale
	return s.call(ctx, locale, req), nil
}

func (s *Submitter) call(ctx context.Context, locale string, req SignupRequest) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("account service panicked", slog.Any("panic", r))
			outcome = Outcome{Kind: OutcomeFailed, Message: s.messages.Message(locale, i18n.KeyUnexpectedError)}
		}
	}()

	res, err := s.accounts.CreateAccount(ctx, req)
	if err != nil {
		return s.failure(locale, err)
	}
	if res.Session == nil {
		s.logger.Info("account created, awaiting confirmation", slog.String("account_id", res.AccountID))
		return Outcome{Kind: OutcomeEmailConfirmationRequired, AccountID: res.AccountID}
	}
	s.logger.Info("account created with session", slog.String("account_id", res.AccountID))
	return Outcome{Kind: OutcomeSessionEstablished, AccountID: res.AccountID, Session: res.Session}
}

func (s *Submitter) failure(locale string, err error) Outcome {
	s.logger.Warn("account creation failed", slog.Any("error", err))
	if errors.Is(err, ErrAlreadyRegistered) || strings.Contains(strings.ToLower(err.Error()), "already registered") {
		return Outcome{Kind: OutcomeFailed, Message: s.messages.Message(locale, i18n.KeyAlreadyRegistered)}
	}
	msg := err.Error()
	if msg == "" {
		msg = s.messages.Message(locale, i18n.KeyUnexpectedError)
	}
	return Outcome{Kind: OutcomeFailed, Message: msg}
}
