package onboarding

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/afrishop/storegen/internal/i18n"
)

// Handler exposes the wizard over HTTP.
type Handler struct {
	svc      *Service
	messages *i18n.Catalog
}

// NewHandler constructs an onboarding HTTP handler.
func NewHandler(svc *Service, messages *i18n.Catalog) *Handler {
	return &Handler{svc: svc, messages: messages}
}

type ruleStatus struct {
	Rule  Rule   `json:"rule"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

type passwordResponse struct {
	PasswordReport
	Label string       `json:"label"`
	Rules []ruleStatus `json:"rules"`
}

type stepsResponse struct {
	Steps         []StepDefinition `json:"steps"`
	Tones         []Choice         `json:"tones"`
	Palette       []Choice         `json:"palette"`
	DefaultColor  string           `json:"default_color"`
	Niches        []Choice         `json:"niches"`
	Countries     []Country        `json:"countries"`
	PasswordRules []ruleStatus     `json:"password_rules"`
}

// Steps returns the step definitions and the choices each step offers.
func (h *Handler) Steps(c *fiber.Ctx) error {
	locale := h.locale(c)
	return c.Status(http.StatusOK).JSON(stepsResponse{
		Steps:         Steps(),
		Tones:         Tones(),
		Palette:       Palette(),
		DefaultColor:  DefaultBrandColor,
		Niches:        Niches(),
		Countries:     Countries(),
		PasswordRules: h.rules(locale, PasswordReport{Missing: Rules()}),
	})
}

type passwordRequest struct {
	Password string `json:"password"`
}

// PasswordStrength scores a candidate password without storing it.
func (h *Handler) PasswordStrength(c *fiber.Ctx) error {
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(h.passwordResponse(h.locale(c), EvaluatePassword(req.Password)))
}

type startRequest struct {
	Locale string `json:"locale"`
}

// Start opens a new session.
func (h *Handler) Start(c *fiber.Ctx) error {
	var req startRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	locale := h.locale(c)
	if req.Locale != "" {
		locale = h.messages.Negotiate(req.Locale)
	}
	view, err := h.svc.Start(c.UserContext(), locale)
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

// Get returns the session view.
func (h *Handler) Get(c *fiber.Ctx) error {
	view, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// UpdateStep replaces the fields of the step named in the path, which must
// be the step on screen.
func (h *Handler) UpdateStep(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "step must be a number")
	}
	step, err := ParseStep(n)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var fields Fields
	switch step {
	case StepProduct:
		var f ProductFields
		err = c.BodyParser(&f)
		fields = f
	case StepBrand:
		var f BrandFields
		err = c.BodyParser(&f)
		fields = f
	case StepShop:
		var f ShopFields
		err = c.BodyParser(&f)
		fields = f
	case StepAccount:
		var f AccountFields
		err = c.BodyParser(&f)
		fields = f
	}
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	view, err := h.svc.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

type moveResponse struct {
	Moved   bool   `json:"moved"`
	Message string `json:"message,omitempty"`
	View    View   `json:"session"`
}

// Advance moves to the next step. A blocked move answers 200 with moved=false.
func (h *Handler) Advance(c *fiber.Ctx) error {
	view, moved, err := h.svc.Advance(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	resp := moveResponse{Moved: moved, View: view}
	if !moved && view.Current != LastStep {
		resp.Message = h.blockedMessage(view)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Retreat moves to the previous step.
func (h *Handler) Retreat(c *fiber.Ctx) error {
	view, moved, err := h.svc.Retreat(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(moveResponse{Moved: moved, View: view})
}

// Submit creates the account. A rejected signup answers 200 with a failed
// outcome; only refusals map to error statuses.
func (h *Handler) Submit(c *fiber.Ctx) error {
	view, err := h.svc.Submit(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// Acknowledge dismisses the email confirmation notice.
func (h *Handler) Acknowledge(c *fiber.Ctx) error {
	handoff, err := h.svc.Acknowledge(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(handoff)
}

// Templates lists the suggestions for a session on the template screen.
func (h *Handler) Templates(c *fiber.Ctx) error {
	opts, err := h.svc.Suggestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(err)
	}
	blank := TemplateOption{ID: "", Name: h.messages.Message(h.locale(c), i18n.KeyTemplateBlank)}
	return c.Status(http.StatusOK).JSON(fiber.Map{"templates": opts, "blank": blank})
}

type templateRequest struct {
	TemplateID string `json:"template_id"`
}

// SelectTemplate closes the flow with the chosen template (empty for blank).
func (h *Handler) SelectTemplate(c *fiber.Ctx) error {
	var req templateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	handoff, err := h.svc.SelectTemplate(c.UserContext(), c.Params("id"), req.TemplateID)
	if err != nil {
		return h.fail(err)
	}
	return c.Status(http.StatusOK).JSON(handoff)
}

func (h *Handler) locale(c *fiber.Ctx) string {
	return h.messages.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
}

func (h *Handler) blockedMessage(v View) string {
	if v.Current == StepProduct {
		return h.messages.Message(v.Locale, i18n.KeyInvalidProductLink)
	}
	return h.messages.Message(v.Locale, i18n.KeyStepBlocked)
}

func (h *Handler) passwordResponse(locale string, r PasswordReport) passwordResponse {
	key := i18n.KeyPasswordWeak
	switch r.Strength {
	case StrengthMedium:
		key = i18n.KeyPasswordMedium
	case StrengthStrong:
		key = i18n.KeyPasswordStrong
	}
	return passwordResponse{PasswordReport: r, Label: h.messages.Message(locale, key), Rules: h.rules(locale, r)}
}

var ruleKeys = map[Rule]string{
	RuleLength: i18n.KeyRuleLength,
	RuleUpper:  i18n.KeyRuleUpper,
	RuleLower:  i18n.KeyRuleLower,
	RuleDigit:  i18n.KeyRuleDigit,
	RuleSymbol: i18n.KeyRuleSymbol,
}

func (h *Handler) rules(locale string, r PasswordReport) []ruleStatus {
	missing := make(map[Rule]bool, len(r.Missing))
	for _, m := range r.Missing {
		missing[m] = true
	}
	out := make([]ruleStatus, 0, len(ruleKeys))
	for _, rule := range Rules() {
		out = append(out, ruleStatus{Rule: rule, Label: h.messages.Message(locale, ruleKeys[rule]), Met: !missing[rule]})
	}
	return out
}

func (h *Handler) fail(err error) error {
	switch {
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrUnknownTemplate):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSubmissionInProgress), errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrNotCurrentStep), errors.Is(err, ErrNoSession):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotReady):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidStep):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
