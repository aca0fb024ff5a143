package guard

import (
	"sync"
	"time"

	"github.com/opsguard/sentinel/internal/audit"
)

// Rate-limit defaults: five failed attempts inside a sliding minute lock
// the identity out for five minutes.
const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 60 * time.Second
	DefaultLockout     = 300 * time.Second
)

// Limiter is a sliding-window counter of failed authorization attempts,
// keyed by identity. Once an identity accumulates maxAttempts failures
// inside the window it is locked out entirely until the lockout expires.
type Limiter struct {
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	log         *audit.Log

	mu          sync.Mutex
	failures    map[int64][]time.Time
	lockedUntil map[int64]time.Time

	now func() time.Time
}

// NewLimiter builds a limiter with the given bounds. Zero values fall back
// to the defaults. log may be nil.
func NewLimiter(maxAttempts int, window, lockout time.Duration, log *audit.Log) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		lockout:     lockout,
		log:         log,
		failures:    make(map[int64][]time.Time),
		lockedUntil: make(map[int64]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether id may attempt a request right now.
func (l *Limiter) Allow(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.lockedUntil[id]; ok {
		if now.Before(until) {
			return false
		}
		delete(l.lockedUntil, id)
		delete(l.failures, id)
	}
	return true
}

// RecordFailure notes one failed attempt for id, locking it out when the
// window fills up.
func (l *Limiter) RecordFailure(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.failures[id][:0]
	for _, t := range l.failures[id] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	l.failures[id] = recent

	if len(recent) >= l.maxAttempts {
		l.lockedUntil[id] = now.Add(l.lockout)
		if l.log != nil {
			l.log.Record(id, audit.EventRateLimited, "identity locked out")
		}
	}
}

// Reset clears the failure history for id after a successful request.
func (l *Limiter) Reset(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, id)
	delete(l.lockedUntil, id)
}
