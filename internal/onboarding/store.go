package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRecordNotFound is returned for unknown or expired wizard sessions.
var ErrRecordNotFound = errors.New("onboarding session not found")

// Phase is where a wizard session stands in the overall flow.
type Phase string

const (
	PhaseCollecting           Phase = "collecting"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseSelectingTemplate    Phase = "selecting_template"
	PhaseCompleted            Phase = "completed"
)

// Record is a persisted wizard session.
type Record struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale"`
	State     State     `json:"state"`
	Phase     Phase     `json:"phase"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists wizard sessions.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]memoryEntry
}

// NewMemoryStore builds an in-process store. Records expire ttl after their
// last save; a non-positive ttl keeps them forever.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, now: time.Now, records: make(map[string]memoryEntry)}
}

func (s *memoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.records[rec.ID] = memoryEntry{rec: rec, expiresAt: exp}
	return nil
}

func (s *memoryStore) Load(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	e, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	now := s.now()
	if !e.expired(now) {
		return e.rec, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok = s.records[id]
	if ok && !e.expired(now) {
		return e.rec, nil
	}
	delete(s.records, id)
	return Record{}, ErrRecordNotFound
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

const recordPrefix = "onboarding:session:v1:"

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode onboarding session: %w", err)
	}
	if err := s.client.Set(ctx, recordPrefix+rec.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save onboarding session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (Record, error) {
	raw, err := s.client.Get(ctx, recordPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load onboarding session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode onboarding session: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, recordPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete onboarding session: %w", err)
	}
	return nil
}
