// Package guard gates every inbound request on the single configured
// operator identity. Authorization is a plain equality check; the sliding
// rate limiter in front of it exists only to slow down identity guessing.
package guard

import (
	"strconv"

	"github.com/opsguard/sentinel/internal/audit"
)

// Outcome of an authorization decision.
type Outcome string

const (
	OutcomeOK           Outcome = "OK"
	OutcomeUnauthorized Outcome = "UNAUTHORIZED"
)

// Guard compares caller identities against the one authorized identity.
// The zero identity means "absent" and is never authorized. Checking is
// stateless; the only side effect is an audit entry per decision.
type Guard struct {
	authorized int64
	log        *audit.Log
}

// New returns a guard for the given authorized identity. log may be nil in
// tests.
func New(authorized int64, log *audit.Log) *Guard {
	return &Guard{authorized: authorized, log: log}
}

// Authorize decides whether id may proceed. Callers must treat an
// Unauthorized result as a silent refusal: no detail beyond the outcome is
// produced, so a probing caller learns nothing about which identities
// exist.
func (g *Guard) Authorize(id int64) Outcome {
	if id == 0 || id != g.authorized {
		g.record(id, audit.EventUnauthorized, "identity "+strconv.FormatInt(id, 10))
		return OutcomeUnauthorized
	}
	g.record(id, audit.EventAccessGranted, "")
	return OutcomeOK
}

func (g *Guard) record(id int64, event, detail string) {
	if g.log != nil {
		g.log.Record(id, event, detail)
	}
}
