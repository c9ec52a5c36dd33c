package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/logging"
)

func newTestService(t *testing.T, accounts AccountCreator, store Store) (*Service, *fakeShops) {
	t.Helper()
	if store == nil {
		store = NewMemoryStore(time.Hour)
	}
	shops := &fakeShops{}
	submitter := NewSubmitter(accounts, NewLocalLock(), i18n.NewCatalog("fr"), logging.Discard())
	flow := NewFlow(nil, shops, testTemplates, logging.Discard())
	return NewService(store, submitter, flow, logging.Discard()), shops
}

func walkToAccount(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	full := filledState()

	for _, f := range []Fields{full.Product, full.Brand, full.Shop} {
		_, err := svc.Update(ctx, id, f)
		require.NoError(t, err)
		_, moved, err := svc.Advance(ctx, id)
		require.NoError(t, err)
		require.True(t, moved)
	}
	v, err := svc.Update(ctx, id, full.Account)
	require.NoError(t, err)
	require.True(t, v.CanSubmit)
}

func TestServiceSessionEstablishedScenario(t *testing.T) {
	session := &Session{UserID: "u-1", AccessToken: "a", RefreshToken: "r"}
	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: session}}
	svc, shops := newTestService(t, accounts, nil)
	ctx := context.Background()

	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	walkToAccount(t, svc, v.ID)

	v, err = svc.Submit(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Outcome)
	assert.Equal(t, OutcomeSessionEstablished, v.Outcome.Kind)
	assert.Equal(t, PhaseSelectingTemplate, v.Phase)
	assert.Equal(t, ScreenTemplateSelection, v.Screen)
	assert.Empty(t, v.Account.Password)

	opts, err := svc.Suggestions(ctx, v.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, opts)

	h, err := svc.SelectTemplate(ctx, v.ID, "minimal-clean")
	require.NoError(t, err)
	assert.Equal(t, DestinationBuilder, h.Destination)
	assert.True(t, h.Refresh)
	assert.Equal(t, "shop-1", h.ShopID)
	assert.Equal(t, "u-1", shops.owner)

	_, err = svc.Get(ctx, v.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestServiceAlreadyRegisteredScenario(t *testing.T) {
	accounts := &fakeAccounts{err: ErrAlreadyRegistered}
	svc, _ := newTestService(t, accounts, nil)
	ctx := context.Background()

	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	walkToAccount(t, svc, v.ID)

	v, err = svc.Submit(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Outcome)
	assert.Equal(t, OutcomeFailed, v.Outcome.Kind)
	assert.Equal(t, i18n.NewCatalog("fr").Message("fr", i18n.KeyAlreadyRegistered), v.Outcome.Message)
	assert.Equal(t, StepAccount, v.Current)
	assert.Equal(t, PhaseCollecting, v.Phase)
	assert.Equal(t, ScreenAccount, v.Screen)

	want := filledState().Account.Redacted()
	assert.Equal(t, want, v.Account)
	assert.True(t, v.CanSubmit, "fields keep their values so the user can resubmit")

	_, err = svc.Submit(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, accounts.callCount())
}

func TestServiceConfirmationScenario(t *testing.T) {
	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-9"}}
	svc, _ := newTestService(t, accounts, nil)
	ctx := context.Background()

	v, err := svc.Start(ctx, "en")
	require.NoError(t, err)
	walkToAccount(t, svc, v.ID)

	v, err = svc.Submit(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, ScreenConfirmEmail, v.Screen)

	_, err = svc.SelectTemplate(ctx, v.ID, "")
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = svc.Update(ctx, v.ID, ProductFields{})
	assert.ErrorIs(t, err, ErrWrongPhase)

	h, err := svc.Acknowledge(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, Handoff{Destination: DestinationLogin}, h)

	_, err = svc.Acknowledge(ctx, v.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestServiceBlockedAdvanceKeepsStep(t *testing.T) {
	svc, _ := newTestService(t, &fakeAccounts{}, nil)
	ctx := context.Background()

	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	assert.False(t, v.CanAdvance)
	assert.False(t, v.CanRetreat)

	_, err = svc.Update(ctx, v.ID, ProductFields{ProductLink: "https://example.com/item/123"})
	require.NoError(t, err)
	v, moved, err := svc.Advance(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, StepProduct, v.Current)

	_, err = svc.Submit(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestServiceWithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	svc, _ := newTestService(t, &fakeAccounts{}, store)
	ctx := context.Background()

	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	_, err = svc.Update(ctx, v.ID, ProductFields{ProductLink: "https://www.alibaba.com/p/1"})
	require.NoError(t, err)
	_, moved, err := svc.Advance(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, moved)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, StepBrand, got.Current)
	assert.Equal(t, MarketplaceAlibaba, got.Marketplace)

	mr.FastForward(2 * time.Hour)
	_, err = svc.Get(ctx, v.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute).(*memoryStore)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{ID: "a", State: NewState()}))
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

// gatedStore pauses the first save that records a submit outcome until
// release is closed, and can fail deletes.
type gatedStore struct {
	Store
	saving    chan struct{}
	release   chan struct{}
	once      sync.Once
	deleteErr error
}

func (g *gatedStore) Save(ctx context.Context, rec Record) error {
	if g.saving != nil && rec.Outcome != nil {
		first := false
		g.once.Do(func() { first = true })
		if first {
			g.saving <- struct{}{}
			<-g.release
		}
	}
	return g.Store.Save(ctx, rec)
}

func (g *gatedStore) Delete(ctx context.Context, id string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	return g.Store.Delete(ctx, id)
}

func submittedSession(t *testing.T, svc *Service) string {
	t.Helper()
	ctx := context.Background()
	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	walkToAccount(t, svc, v.ID)
	v, err = svc.Submit(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, PhaseSelectingTemplate, v.Phase)
	return v.ID
}

func TestServiceSubmitHoldsGuardUntilSaved(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: &Session{UserID: "u-1"}}}
	store := &gatedStore{Store: NewMemoryStore(time.Hour), saving: make(chan struct{}), release: make(chan struct{})}
	svc, _ := newTestService(t, accounts, store)
	ctx := context.Background()

	v, err := svc.Start(ctx, "fr")
	require.NoError(t, err)
	walkToAccount(t, svc, v.ID)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, v.ID)
		done <- err
	}()
	<-store.saving

	_, err = svc.Update(ctx, v.ID, filledState().Account)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, _, err = svc.Retreat(ctx, v.ID)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = svc.Submit(ctx, v.ID)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(store.release)
	require.NoError(t, <-done)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseSelectingTemplate, got.Phase)
	require.NotNil(t, got.Outcome)
	assert.Equal(t, OutcomeSessionEstablished, got.Outcome.Kind)

	_, err = svc.Submit(ctx, v.ID)
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, accounts.callCount())
}

func TestServiceSelectTemplateProvisionsOnce(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: &Session{UserID: "u-1"}}}
	svc, shops := newTestService(t, accounts, nil)
	id := submittedSession(t, svc)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SelectTemplate(context.Background(), id, "minimal-clean"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, shops.count())
}

func TestServiceSelectTemplateSurvivesLostDelete(t *testing.T) {
	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: &Session{UserID: "u-1"}}}
	store := &gatedStore{Store: NewMemoryStore(time.Hour), deleteErr: errors.New("redis down")}
	svc, shops := newTestService(t, accounts, store)
	ctx := context.Background()
	id := submittedSession(t, svc)

	h, err := svc.SelectTemplate(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, DestinationBuilder, h.Destination)

	_, err = svc.SelectTemplate(ctx, id, "")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, shops.count())
}

func TestServiceSelectTemplateFailureKeepsPhase(t *testing.T) {
	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: &Session{UserID: "u-1"}}}
	svc, shops := newTestService(t, accounts, nil)
	ctx := context.Background()
	id := submittedSession(t, svc)

	shops.err = errors.New("db down")
	_, err := svc.SelectTemplate(ctx, id, "")
	require.Error(t, err)

	v, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, PhaseSelectingTemplate, v.Phase)

	shops.err = nil
	_, err = svc.SelectTemplate(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, 1, shops.count())
}

func TestMemoryStoreKeepsRecordSavedDuringExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute).(*memoryStore)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var hook func()
	store.now = func() time.Time {
		if h := hook; h != nil {
			hook = nil
			h()
		}
		return clock
	}
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{ID: "a", Locale: "stale"}))
	clock = clock.Add(2 * time.Minute)
	hook = func() {
		require.NoError(t, store.Save(ctx, Record{ID: "a", Locale: "fresh"}))
	}

	rec, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "fresh", rec.Locale)

	rec, err = store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "fresh", rec.Locale)
}
