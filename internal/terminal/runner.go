package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/logging"
	"github.com/afrishop/storegen/internal/onboarding"
)

// Runner drives the onboarding wizard from a terminal.
type Runner struct {
	driver    PromptDriver
	submitter *onboarding.Submitter
	flow      *onboarding.Flow
	messages  *i18n.Catalog
	locale    string
	key       string
	logger    *slog.Logger
}

// NewRunner wires a terminal wizard. Each runner owns one submission key, so
// its submit guard is independent of any other wizard.
func NewRunner(driver PromptDriver, submitter *onboarding.Submitter, flow *onboarding.Flow, messages *i18n.Catalog, locale string, logger *slog.Logger) *Runner {
	return &Runner{
		driver:    driver,
		submitter: submitter,
		flow:      flow,
		messages:  messages,
		locale:    locale,
		key:       "terminal:" + uuid.NewString(),
		logger:    logging.Component(logger, "terminal"),
	}
}

// Run walks the four steps, submits, and finishes the post-submit flow.
func (r *Runner) Run(ctx context.Context) (onboarding.Handoff, error) {
	w := onboarding.NewWizard()
	outcome, err := r.collect(ctx, w)
	if err != nil {
		return onboarding.Handoff{}, err
	}

	var h onboarding.Handoff
	switch outcome.Kind {
	case onboarding.OutcomeEmailConfirmationRequired:
		for _, key := range []string{i18n.KeyConfirmEmailTitle, i18n.KeyConfirmEmailBody, i18n.KeyConfirmEmailSpam} {
			if err := r.info(ctx, key); err != nil {
				return onboarding.Handoff{}, err
			}
		}
		h, err = r.flow.Acknowledge(ctx)
	case onboarding.OutcomeSessionEstablished:
		h, err = r.chooseTemplate(ctx, w.State(), outcome)
	default:
		err = fmt.Errorf("unexpected outcome %q", outcome.Kind)
	}
	if err != nil {
		return onboarding.Handoff{}, err
	}
	return h, r.info(ctx, i18n.KeyHandoff, h.Destination)
}

func (r *Runner) collect(ctx context.Context, w *onboarding.Wizard) (onboarding.Outcome, error) {
	total := len(onboarding.Steps())
	for {
		step := w.Current()
		if err := r.info(ctx, i18n.KeyStepHeader, int(step), total, stepDefinition(step).Title); err != nil {
			return onboarding.Outcome{}, err
		}

		fields, err := r.ask(ctx, step, w.State())
		if err != nil {
			return onboarding.Outcome{}, err
		}
		if err := w.Update(fields); err != nil {
			return onboarding.Outcome{}, err
		}

		if step > onboarding.StepProduct {
			back, err := r.goBack(ctx, step)
			if err != nil {
				return onboarding.Outcome{}, err
			}
			if back {
				w.Retreat()
				continue
			}
		}

		if step < onboarding.LastStep {
			if !w.Advance() {
				if err := r.info(ctx, i18n.KeyStepBlocked); err != nil {
					return onboarding.Outcome{}, err
				}
			}
			continue
		}

		outcome, err := r.submitter.Submit(ctx, r.key, r.locale, w.State())
		switch {
		case errors.Is(err, onboarding.ErrNotReady):
			if err := r.info(ctx, i18n.KeyStepBlocked); err != nil {
				return onboarding.Outcome{}, err
			}
			continue
		case err != nil:
			return onboarding.Outcome{}, err
		}
		if !outcome.Succeeded() {
			r.logger.Info("signup failed", slog.String("message", outcome.Message))
			if err := r.driver.Info(ctx, outcome.Message); err != nil {
				return onboarding.Outcome{}, err
			}
			continue
		}
		w.ClearPassword()
		return outcome, nil
	}
}

func (r *Runner) goBack(ctx context.Context, step onboarding.StepID) (bool, error) {
	next := i18n.KeyPromptNext
	if step == onboarding.LastStep {
		next = i18n.KeyPromptSubmit
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: stepDefinition(step).Title,
		Options: []string{r.msg(next), r.msg(i18n.KeyPromptBack)},
	})
	return idx == 1, err
}

func (r *Runner) ask(ctx context.Context, step onboarding.StepID, s onboarding.State) (onboarding.Fields, error) {
	switch step {
	case onboarding.StepProduct:
		return r.askProduct(ctx, s.Product)
	case onboarding.StepBrand:
		return r.askBrand(ctx, s.Brand)
	case onboarding.StepShop:
		return r.askShop(ctx, s.Shop)
	case onboarding.StepAccount:
		return r.askAccount(ctx, s.Account)
	default:
		return nil, fmt.Errorf("%w: %d", onboarding.ErrInvalidStep, int(step))
	}
}

func (r *Runner) askProduct(ctx context.Context, f onboarding.ProductFields) (onboarding.Fields, error) {
	link, err := r.driver.Input(ctx, InputConfig{
		Message: r.msg(i18n.KeyPromptProductLink),
		Default: f.ProductLink,
		Validator: func(v string) error {
			if _, ok := onboarding.DetectMarketplace(v); !ok {
				return errors.New(r.msg(i18n.KeyInvalidProductLink))
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if _, ok := onboarding.DetectMarketplace(link); ok {
		if err := r.info(ctx, i18n.KeyValidProductLink); err != nil {
			return nil, err
		}
	}
	return onboarding.ProductFields{ProductLink: link}, nil
}

func (r *Runner) askBrand(ctx context.Context, f onboarding.BrandFields) (onboarding.Fields, error) {
	tone, err := r.choose(ctx, i18n.KeyPromptTone, onboarding.Tones(), f.Tone)
	if err != nil {
		return nil, err
	}
	color, err := r.choose(ctx, i18n.KeyPromptColor, onboarding.Palette(), f.Color)
	if err != nil {
		return nil, err
	}
	return onboarding.BrandFields{Tone: tone, Color: color}, nil
}

func (r *Runner) askShop(ctx context.Context, f onboarding.ShopFields) (onboarding.Fields, error) {
	name, err := r.driver.Input(ctx, InputConfig{Message: r.msg(i18n.KeyPromptShopName), Default: f.Name, Validator: required})
	if err != nil {
		return nil, err
	}
	niche, err := r.choose(ctx, i18n.KeyPromptNiche, onboarding.Niches(), f.Niche)
	if err != nil {
		return nil, err
	}
	return onboarding.ShopFields{Name: name, Niche: niche}, nil
}

func (r *Runner) askAccount(ctx context.Context, f onboarding.AccountFields) (onboarding.Fields, error) {
	name, err := r.driver.Input(ctx, InputConfig{Message: r.msg(i18n.KeyPromptFullName), Default: f.FullName, Validator: required})
	if err != nil {
		return nil, err
	}
	email, err := r.driver.Input(ctx, InputConfig{Message: r.msg(i18n.KeyPromptEmail), Default: f.Email, Validator: required})
	if err != nil {
		return nil, err
	}

	countries := onboarding.Countries()
	labels := make([]string, len(countries))
	current := 0
	for i, c := range countries {
		labels[i] = c.Label
		if c.Code == f.Country {
			current = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: r.msg(i18n.KeyPromptCountry), Options: labels, DefaultIndex: current})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(countries) {
		idx = current
	}
	country := countries[idx]

	phone, err := r.driver.Input(ctx, InputConfig{Message: r.msg(i18n.KeyPromptPhone, country.PhoneFormat), Default: f.Phone, Validator: required})
	if err != nil {
		return nil, err
	}
	password, err := r.driver.Password(ctx, InputConfig{Message: r.msg(i18n.KeyPromptPassword), Default: f.Password})
	if err != nil {
		return nil, err
	}
	if err := r.reportPassword(ctx, password); err != nil {
		return nil, err
	}
	return onboarding.AccountFields{FullName: name, Email: email, Phone: phone, Country: country.Code, Password: password}, nil
}

var strengthKeys = map[onboarding.Strength]string{
	onboarding.StrengthWeak:   i18n.KeyPasswordWeak,
	onboarding.StrengthMedium: i18n.KeyPasswordMedium,
	onboarding.StrengthStrong: i18n.KeyPasswordStrong,
}

var ruleKeys = map[onboarding.Rule]string{
	onboarding.RuleLength: i18n.KeyRuleLength,
	onboarding.RuleUpper:  i18n.KeyRuleUpper,
	onboarding.RuleLower:  i18n.KeyRuleLower,
	onboarding.RuleDigit:  i18n.KeyRuleDigit,
	onboarding.RuleSymbol: i18n.KeyRuleSymbol,
}

func (r *Runner) reportPassword(ctx context.Context, pw string) error {
	report := onboarding.EvaluatePassword(pw)
	lines := []string{r.msg(strengthKeys[report.Strength])}
	for _, rule := range report.Missing {
		lines = append(lines, "  x "+r.msg(ruleKeys[rule]))
	}
	return r.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (r *Runner) chooseTemplate(ctx context.Context, s onboarding.State, o onboarding.Outcome) (onboarding.Handoff, error) {
	options, err := r.flow.Suggestions(ctx, s)
	if err != nil {
		return onboarding.Handoff{}, err
	}
	labels := make([]string, 0, len(options)+1)
	for _, opt := range options {
		labels = append(labels, fmt.Sprintf("%s (%s)", opt.Name, opt.Description))
	}
	labels = append(labels, r.msg(i18n.KeyTemplateBlank))

	idx, err := r.driver.Select(ctx, SelectConfig{Message: r.msg(i18n.KeyPromptTemplate), Options: labels, PageSize: len(labels)})
	if err != nil {
		return onboarding.Handoff{}, err
	}
	choice := ""
	if idx >= 0 && idx < len(options) {
		choice = options[idx].ID
	}
	return r.flow.CompleteTemplateSelection(ctx, s, o, choice)
}

func (r *Runner) choose(ctx context.Context, key string, choices []onboarding.Choice, current string) (string, error) {
	labels := make([]string, len(choices))
	def := 0
	for i, c := range choices {
		labels[i] = c.Label
		if c.Description != "" {
			labels[i] += ": " + c.Description
		}
		if c.Value == current {
			def = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: r.msg(key), Options: labels, DefaultIndex: def})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", nil
	}
	return choices[idx].Value, nil
}

func (r *Runner) msg(key string, args ...any) string {
	return r.messages.Message(r.locale, key, args...)
}

func (r *Runner) info(ctx context.Context, key string, args ...any) error {
	return r.driver.Info(ctx, r.msg(key, args...))
}

func stepDefinition(step onboarding.StepID) onboarding.StepDefinition {
	return onboarding.Steps()[int(step)-1]
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("required")
	}
	return nil
}
