package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAuthorize(t *testing.T) {
	g := New(12345, nil)

	tests := []struct {
		name string
		id   int64
		want Outcome
	}{
		{"authorized identity", 12345, OutcomeOK},
		{"wrong identity", 99999, OutcomeUnauthorized},
		{"absent identity", 0, OutcomeUnauthorized},
		{"negative identity", -12345, OutcomeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Authorize(tt.id); got != tt.want {
				t.Errorf("Authorize(%d) = %s, want %s", tt.id, got, tt.want)
			}
		})
	}
}

func TestAuthorize_ZeroConfiguredNeverMatches(t *testing.T) {
	// A misconfigured guard with no identity must not treat the absent
	// identity as authorized.
	g := New(0, nil)
	if got := g.Authorize(0); got != OutcomeUnauthorized {
		t.Errorf("Authorize(0) with unset identity = %s, want UNAUTHORIZED", got)
	}
}

func newTestLimiter() (*Limiter, *time.Time) {
	l := NewLimiter(5, 60*time.Second, 300*time.Second, nil)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestLimiter_LocksOutAfterMaxFailures(t *testing.T) {
	l, _ := newTestLimiter()
	const id = int64(42)

	for i := 0; i < 4; i++ {
		l.RecordFailure(id)
		if !l.Allow(id) {
			t.Fatalf("locked out after %d failures, want lockout at 5", i+1)
		}
	}
	l.RecordFailure(id)
	if l.Allow(id) {
		t.Error("still allowed after 5 failures inside the window")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l, clock := newTestLimiter()
	const id = int64(42)

	for i := 0; i < 4; i++ {
		l.RecordFailure(id)
	}
	*clock = clock.Add(61 * time.Second)
	l.RecordFailure(id)
	if !l.Allow(id) {
		t.Error("stale failures outside the window still count toward lockout")
	}
}

func TestLimiter_LockoutExpiry(t *testing.T) {
	l, clock := newTestLimiter()
	const id = int64(42)

	for i := 0; i < 5; i++ {
		l.RecordFailure(id)
	}
	if l.Allow(id) {
		t.Fatal("expected lockout")
	}
	*clock = clock.Add(299 * time.Second)
	if l.Allow(id) {
		t.Error("lockout lifted early")
	}
	*clock = clock.Add(2 * time.Second)
	if !l.Allow(id) {
		t.Error("lockout persisted past expiry")
	}
}

func TestLimiter_ResetClearsHistory(t *testing.T) {
	l, _ := newTestLimiter()
	const id = int64(42)

	for i := 0; i < 5; i++ {
		l.RecordFailure(id)
	}
	l.Reset(id)
	if !l.Allow(id) {
		t.Error("Reset did not clear the lockout")
	}
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		l.RecordFailure(7)
	}
	if l.Allow(7) {
		t.Error("expected lockout for identity 7")
	}
	if !l.Allow(8) {
		t.Error("identity 8 affected by identity 7's failures")
	}
}

func TestChain_GuardAndLimiter(t *testing.T) {
	g := New(12345, nil)
	l, _ := newTestLimiter()

	var handled int
	h := Chain(func(ctx context.Context, id int64) error {
		handled++
		return nil
	}, l.Intercept, g.Intercept)

	ctx := context.Background()
	if err := h(ctx, 12345); err != nil {
		t.Fatalf("authorized request refused: %v", err)
	}
	if handled != 1 {
		t.Fatalf("handler ran %d times, want 1", handled)
	}

	// Five refused probes from a wrong identity lock it out; the limiter
	// then refuses before the guard even runs.
	for i := 0; i < 5; i++ {
		if err := h(ctx, 666); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("probe %d: err = %v, want ErrUnauthorized", i+1, err)
		}
	}
	if l.Allow(666) {
		t.Error("probing identity not locked out after 5 refusals")
	}

	// The authorized identity is unaffected and its success resets its own
	// slate only.
	if err := h(ctx, 12345); err != nil {
		t.Errorf("authorized request refused after unrelated lockout: %v", err)
	}
	if handled != 2 {
		t.Errorf("handler ran %d times, want 2", handled)
	}
}

func TestChain_HandlerErrorsDoNotCountAsFailures(t *testing.T) {
	g := New(12345, nil)
	l, _ := newTestLimiter()

	sentinel := errors.New("downstream failure")
	h := Chain(func(ctx context.Context, id int64) error {
		return sentinel
	}, l.Intercept, g.Intercept)

	for i := 0; i < 10; i++ {
		if err := h(context.Background(), 12345); !errors.Is(err, sentinel) {
			t.Fatalf("err = %v, want downstream failure", err)
		}
	}
	if !l.Allow(12345) {
		t.Error("downstream errors counted as authorization failures")
	}
}
