package guard

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by admission stages when a request must be
// silently refused. It carries no detail on purpose.
var ErrUnauthorized = errors.New("unauthorized")

// Handler processes one admitted request for the given identity.
type Handler func(ctx context.Context, id int64) error

// Interceptor wraps a handler with an admission stage.
type Interceptor func(Handler) Handler

// Chain composes stages around h. The first stage is outermost, so
// Chain(h, a, b) runs a, then b, then h.
func Chain(h Handler, stages ...Interceptor) Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}

// Intercept admits only the authorized identity.
func (g *Guard) Intercept(next Handler) Handler {
	return func(ctx context.Context, id int64) error {
		if g.Authorize(id) != OutcomeOK {
			return ErrUnauthorized
		}
		return next(ctx, id)
	}
}

// Intercept refuses locked-out identities before the guard runs, records a
// failure when the inner stages refuse, and clears the slate on success.
// It must sit outside the guard stage so it can observe its failures.
func (l *Limiter) Intercept(next Handler) Handler {
	return func(ctx context.Context, id int64) error {
		if !l.Allow(id) {
			return ErrUnauthorized
		}
		err := next(ctx, id)
		switch {
		case errors.Is(err, ErrUnauthorized):
			l.RecordFailure(id)
		case err == nil:
			l.Reset(id)
		}
		return err
	}
}
