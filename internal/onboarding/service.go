package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/afrishop/storegen/internal/logging"
)

// ErrWrongPhase is returned when an operation does not apply to the session's phase.
var ErrWrongPhase = errors.New("operation not allowed in current phase")

// View is the client-facing rendition of a session. It never carries the password.
type View struct {
	ID          string          `json:"id"`
	Locale      string          `json:"locale"`
	Phase       Phase           `json:"phase"`
	Screen      Screen          `json:"screen"`
	Current     StepID          `json:"current"`
	Step        StepDefinition  `json:"step"`
	Product     ProductFields   `json:"product"`
	Marketplace Marketplace     `json:"marketplace,omitempty"`
	Brand       BrandFields     `json:"brand"`
	Shop        ShopFields      `json:"shop"`
	Account     AccountFields   `json:"account"`
	Password    *PasswordReport `json:"password,omitempty"`
	CanAdvance  bool            `json:"can_advance"`
	CanRetreat  bool            `json:"can_retreat"`
	CanSubmit   bool            `json:"can_submit"`
	Submitting  bool            `json:"submitting"`
	Outcome     *Outcome        `json:"outcome,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Service hosts wizard sessions on behalf of remote clients.
type Service struct {
	store     Store
	submitter *Submitter
	flow      *Flow
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the session service.
func NewService(store Store, submitter *Submitter, flow *Flow, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		submitter: submitter,
		flow:      flow,
		logger:    logging.Component(logger, "onboarding.service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a fresh session on step 1.
func (s *Service) Start(ctx context.Context, locale string) (View, error) {
	rec := Record{
		ID:     uuid.NewString(),
		Locale: locale,
		State:  NewState(),
		Phase:  PhaseCollecting,
	}
	if err := s.save(ctx, &rec); err != nil {
		return View{}, err
	}
	s.logger.Info("onboarding session started", slog.String("session_id", rec.ID), slog.String("locale", locale))
	return s.view(ctx, rec), nil
}

// Get returns the current view of a session.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, rec), nil
}

// Update replaces the fields of the step on screen.
func (s *Service) Update(ctx context.Context, id string, f Fields) (View, error) {
	return s.mutate(ctx, id, func(w *Wizard) (bool, error) {
		return true, w.Update(f)
	})
}

// Advance moves forward when the current step allows it. The boolean
// reports whether the step changed.
func (s *Service) Advance(ctx context.Context, id string) (View, bool, error) {
	var moved bool
	v, err := s.mutate(ctx, id, func(w *Wizard) (bool, error) {
		moved = w.Advance()
		return moved, nil
	})
	return v, moved, err
}

// Retreat moves back one step.
func (s *Service) Retreat(ctx context.Context, id string) (View, bool, error) {
	var moved bool
	v, err := s.mutate(ctx, id, func(w *Wizard) (bool, error) {
		moved = w.Retreat()
		return moved, nil
	})
	return v, moved, err
}

// Submit sends the account data. A failed outcome keeps the session on
// step 4 with the failure message; a successful one moves to the next phase
// and drops the password from the stored state. The session's guard is held
// until the outcome is saved.
func (s *Service) Submit(ctx context.Context, id string) (View, error) {
	var out View
	err := s.withGuard(ctx, id, func(rec *Record) error {
		if rec.Phase != PhaseCollecting {
			return fmt.Errorf("%w: %s", ErrWrongPhase, rec.Phase)
		}
		outcome, err := s.submitter.SubmitHeld(ctx, rec.Locale, rec.State)
		if err != nil {
			return err
		}

		rec.Outcome = &outcome
		switch outcome.Kind {
		case OutcomeEmailConfirmationRequired:
			rec.Phase = PhaseAwaitingConfirmation
		case OutcomeSessionEstablished:
			rec.Phase = PhaseSelectingTemplate
		}
		if outcome.Succeeded() {
			rec.State.Account.Password = ""
		}
		if err := s.save(ctx, rec); err != nil {
			return err
		}
		s.logger.Info("onboarding submitted", slog.String("session_id", rec.ID), slog.String("outcome", string(outcome.Kind)))
		out = s.render(*rec, false)
		return nil
	})
	return out, err
}

// Acknowledge handles the confirmation notice dismissal and ends the session.
func (s *Service) Acknowledge(ctx context.Context, id string) (Handoff, error) {
	return s.handOff(ctx, id, PhaseAwaitingConfirmation, func(Record) (Handoff, error) {
		return s.flow.Acknowledge(ctx)
	})
}

// Suggestions lists the templates offered to a session awaiting its choice.
func (s *Service) Suggestions(ctx context.Context, id string) ([]TemplateOption, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Phase != PhaseSelectingTemplate {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, rec.Phase)
	}
	return s.flow.Suggestions(ctx, rec.State)
}

// SelectTemplate records the template choice (empty for blank), provisions
// the shop and ends the session.
func (s *Service) SelectTemplate(ctx context.Context, id, choice string) (Handoff, error) {
	return s.handOff(ctx, id, PhaseSelectingTemplate, func(rec Record) (Handoff, error) {
		if rec.Outcome == nil {
			return Handoff{}, fmt.Errorf("%w: no outcome", ErrWrongPhase)
		}
		return s.flow.CompleteTemplateSelection(ctx, rec.State, *rec.Outcome, choice)
	})
}

// handOff runs the last step of a session under its guard. The record is
// completed before fn runs and put back in phase if fn fails.
func (s *Service) handOff(ctx context.Context, id string, phase Phase, fn func(Record) (Handoff, error)) (Handoff, error) {
	var h Handoff
	err := s.withGuard(ctx, id, func(rec *Record) error {
		if rec.Phase != phase {
			return fmt.Errorf("%w: %s", ErrWrongPhase, rec.Phase)
		}
		rec.Phase = PhaseCompleted
		if err := s.save(ctx, rec); err != nil {
			return err
		}

		var err error
		h, err = fn(*rec)
		if err != nil {
			rec.Phase = phase
			if serr := s.save(context.WithoutCancel(ctx), rec); serr != nil {
				s.logger.Error("restore onboarding session", slog.String("session_id", rec.ID), slog.Any("error", serr))
			}
			return err
		}

		if err := s.store.Delete(ctx, rec.ID); err != nil {
			s.logger.Warn("delete completed onboarding session", slog.String("session_id", rec.ID), slog.Any("error", err))
		}
		s.logger.Info("onboarding completed", slog.String("session_id", rec.ID))
		return nil
	})
	return h, err
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*Wizard) (bool, error)) (View, error) {
	var out View
	err := s.withGuard(ctx, id, func(rec *Record) error {
		if rec.Phase != PhaseCollecting {
			return fmt.Errorf("%w: %s", ErrWrongPhase, rec.Phase)
		}
		w, err := Resume(rec.State)
		if err != nil {
			return err
		}
		changed, err := fn(w)
		if err != nil {
			return err
		}
		if changed {
			rec.State = w.State()
			rec.Outcome = nil
			if err := s.save(ctx, rec); err != nil {
				return err
			}
		}
		out = s.render(*rec, false)
		return nil
	})
	return out, err
}

// withGuard loads the session while holding its guard and keeps the guard
// until fn returns. A session already held yields ErrSubmissionInProgress.
func (s *Service) withGuard(ctx context.Context, id string, fn func(*Record) error) error {
	release, err := s.submitter.Hold(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return err
	}
	return fn(&rec)
}

func (s *Service) save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = s.now()
	return s.store.Save(ctx, *rec)
}

func (s *Service) view(ctx context.Context, rec Record) View {
	var busy bool
	if rec.Phase == PhaseCollecting {
		busy, _ = s.submitter.Submitting(ctx, rec.ID)
	}
	return s.render(rec, busy)
}

// render builds the view of rec. submitting is whether another request holds
// the session's guard.
func (s *Service) render(rec Record, submitting bool) View {
	st := rec.State
	v := View{
		ID:        rec.ID,
		Locale:    rec.Locale,
		Phase:     rec.Phase,
		Current:   st.Current,
		Product:   st.Product,
		Brand:     st.Brand,
		Shop:      st.Shop,
		Account:   st.Account.Redacted(),
		Outcome:   rec.Outcome,
		UpdatedAt: rec.UpdatedAt,
	}
	v.Marketplace, _ = DetectMarketplace(st.Product.ProductLink)
	if st.Current.Valid() {
		v.Step = stepDefinitions[st.Current-1]
	}
	if st.Current == StepAccount {
		report := EvaluatePassword(st.Account.Password)
		v.Password = &report
	}

	v.Screen = ScreenAccount
	switch rec.Phase {
	case PhaseCollecting:
		if w, err := Resume(st); err == nil {
			v.CanAdvance = st.Current < LastStep && w.CanAdvance()
			v.CanRetreat = st.Current > FirstStep
			v.CanSubmit = w.CanSubmit()
		}
		v.Screen = Screen(st.Current.String())
		v.Submitting = submitting
	case PhaseAwaitingConfirmation:
		v.Screen = ScreenConfirmEmail
	case PhaseSelectingTemplate:
		v.Screen = ScreenTemplateSelection
	}
	if v.Submitting {
		v.CanSubmit = false
	}
	return v
}
