package onboarding

import (
	"context"
	"errors"
	"fmt"
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

type fakeAccounts struct {
	mu      sync.Mutex
	calls   []SignupRequest
	result  SignupResult
	err     error
	panics  bool
	started chan struct{}
	release chan struct{}
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, req SignupRequest) (SignupResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("boom")
	}
	return f.result, f.err
}

func (f *fakeAccounts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSubmitter(accounts AccountCreator, lock Lock) *Submitter {
	return NewSubmitter(accounts, lock, i18n.NewCatalog("fr"), logging.Discard())
}

func TestSubmitRefusesIncompleteState(t *testing.T) {
	accounts := &fakeAccounts{}
	s := newTestSubmitter(accounts, nil)

	st := filledState()
	st.Current = StepShop
	_, err := s.Submit(context.Background(), "k", "fr", st)
	assert.ErrorIs(t, err, ErrNotReady)

	st = filledState()
	st.Account.Password = "weak"
	_, err = s.Submit(context.Background(), "k", "fr", st)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, accounts.callCount())
}

func TestSubmitOutcomes(t *testing.T) {
	session := &Session{UserID: "u-1", AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}
	catalog := i18n.NewCatalog("fr")

	cases := []struct {
		name     string
		accounts *fakeAccounts
		want     Outcome
	}{
		{
			name:     "session established",
			accounts: &fakeAccounts{result: SignupResult{AccountID: "u-1", Session: session}},
			want:     Outcome{Kind: OutcomeSessionEstablished, AccountID: "u-1", Session: session},
		},
		{
			name:     "confirmation required",
			accounts: &fakeAccounts{result: SignupResult{AccountID: "u-2"}},
			want:     Outcome{Kind: OutcomeEmailConfirmationRequired, AccountID: "u-2"},
		},
		{
			name:     "already registered sentinel",
			accounts: &fakeAccounts{err: ErrAlreadyRegistered},
			want:     Outcome{Kind: OutcomeFailed, Message: catalog.Message("fr", i18n.KeyAlreadyRegistered)},
		},
		{
			name:     "already registered reason",
			accounts: &fakeAccounts{err: errors.New("User already registered")},
			want:     Outcome{Kind: OutcomeFailed, Message: catalog.Message("fr", i18n.KeyAlreadyRegistered)},
		},
		{
			name:     "other reason verbatim",
			accounts: &fakeAccounts{err: errors.New("rate limit exceeded")},
			want:     Outcome{Kind: OutcomeFailed, Message: "rate limit exceeded"},
		},
		{
			name:     "panic falls back to generic message",
			accounts: &fakeAccounts{panics: true},
			want:     Outcome{Kind: OutcomeFailed, Message: catalog.Message("fr", i18n.KeyUnexpectedError)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lock := NewLocalLock()
			s := newTestSubmitter(tc.accounts, lock)

			got, err := s.Submit(context.Background(), "session-1", "fr", filledState())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, tc.accounts.callCount())

			busy, err := lock.Locked(context.Background(), "session-1")
			require.NoError(t, err)
			assert.False(t, busy, "guard must be released")
		})
	}
}

func TestSubmitSendsOnboardingMetadata(t *testing.T) {
	accounts := &fakeAccounts{result: SignupResult{AccountID: "u-1"}}
	s := newTestSubmitter(accounts, nil)

	_, err := s.Submit(context.Background(), "k", "fr", filledState())
	require.NoError(t, err)

	require.Len(t, accounts.calls, 1)
	req := accounts.calls[0]
	assert.Equal(t, "awa@example.com", req.Email)
	assert.Equal(t, strongPassword, req.Password)
	assert.Equal(t, Metadata{
		ProductLink: "https://www.aliexpress.com/item/123",
		Marketplace: MarketplaceAliExpress,
		BrandTone:   "modern",
		BrandColor:  "#ea580c",
		ShopName:    "Ma Boutique",
		ShopNiche:   "fashion",
	}, req.Profile.Onboarding)
}

func TestSubmitGuardIgnoresReentry(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	accounts := &fakeAccounts{
		result:  SignupResult{AccountID: "u-1"},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := newTestSubmitter(accounts, NewLocalLock())
	ctx := context.Background()

	done := make(chan Outcome, 1)
	go func() {
		o, err := s.Submit(ctx, "session-1", "fr", filledState())
		assert.NoError(t, err)
		done <- o
	}()
	<-accounts.started

	busy, err := s.Submitting(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, busy)

	_, err = s.Submit(ctx, "session-1", "fr", filledState())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(accounts.release)
	o := <-done
	assert.Equal(t, OutcomeEmailConfirmationRequired, o.Kind)
	assert.Equal(t, 1, accounts.callCount())

	busy, err = s.Submitting(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestSubmitGuardIsPerKey(t *testing.T) {
	lock := NewLocalLock()
	ctx := context.Background()

	tokA, ok, err := lock.TryLock(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryLock(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = lock.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Unlock(ctx, "a", "someone-else"))
	held, err := lock.Locked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, held, "a foreign token must not release the key")

	require.NoError(t, lock.Unlock(ctx, "a", tokA))
	require.NoError(t, lock.Unlock(ctx, "a", tokA))
	_, ok, err = lock.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLockDropsReleasedKeys(t *testing.T) {
	lock := NewLocalLock()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("session-%d", i)
		tok, ok, err := lock.TryLock(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, lock.Unlock(ctx, key, tok))
	}
	assert.Zero(t, lock.size())
}

func TestRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	lock := NewRedisLock(client, time.Minute)
	ctx := context.Background()

	tok, ok, err := lock.TryLock(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, tok)

	_, ok, err = lock.TryLock(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	held, err := lock.Locked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lock.Unlock(ctx, "s1", tok))
	held, err = lock.Locked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRedisLockStaleUnlockKeepsNewHolder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	lock := NewRedisLock(client, 30*time.Second)
	ctx := context.Background()

	first, ok, err := lock.TryLock(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(time.Minute)
	second, ok, err := lock.TryLock(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok, "marker expires after its ttl")
	require.NotEqual(t, first, second)

	require.NoError(t, lock.Unlock(ctx, "s1", first))
	held, err := lock.Locked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, held, "the expired holder must not release the new one")

	_, ok, err = lock.TryLock(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Unlock(ctx, "s1", second))
	held, err = lock.Locked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, held)
}
