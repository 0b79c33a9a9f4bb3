package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Defaults for answer submission: at most 10 attempts per rolling hour.
const (
	DefaultLimit  = 10
	DefaultWindow = time.Hour
)

// AnswerKey builds the bucket key for answer submission by an identity.
// The identity should be the verified user id; a network-origin fallback
// is shared by everyone behind the same origin and is a soft control only.
func AnswerKey(identity string) string {
	return "answers:" + identity
}

// Decision is the outcome of one rate-limit consultation.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // set when denied: time until the window resets
}

// CounterStore holds the per-key attempt counters. Hit atomically counts
// one attempt against the key's current window and reports the decision.
type CounterStore interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// Limiter bounds how many attempts a key may make per window.
type Limiter struct {
	store  CounterStore
	limit  int
	window time.Duration
}

func New(store CounterStore, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow consumes one attempt for key. A store fault surfaces as an error,
// never as a silent allow or deny.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	return l.store.Hit(ctx, key, l.limit, l.window)
}

type windowRecord struct {
	count   int
	resetAt time.Time
}

// sweepEvery bounds how many fresh windows may be opened before expired
// records are swept out of the map.
const sweepEvery = 256

// MemoryStore is the process-local counter store. Counters for different
// keys share one mutex; each request performs exactly one mutation under
// it, so concurrent hits cannot inflate the effective limit.
//
// Being process-local, limits are per-process-approximate in a
// multi-process deployment. Use RedisStore when one shared budget is
// required.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowRecord
	opened  int // fresh windows since the last sweep
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*windowRecord),
		now:     time.Now,
	}
}

func (m *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec, ok := m.windows[key]
	if !ok || now.After(rec.resetAt) {
		m.windows[key] = &windowRecord{count: 1, resetAt: now.Add(window)}
		// Keys that go idle never hit again, so their expired records
		// are swept here rather than left to accumulate.
		m.opened++
		if m.opened >= sweepEvery {
			m.opened = 0
			for k, r := range m.windows {
				if now.After(r.resetAt) {
					delete(m.windows, k)
				}
			}
		}
		return Decision{Allowed: true, Remaining: limit - 1}, nil
	}

	if rec.count >= limit {
		return Decision{Allowed: false, RetryAfter: rec.resetAt.Sub(now)}, nil
	}

	rec.count++
	return Decision{Allowed: true, Remaining: limit - rec.count}, nil
}
