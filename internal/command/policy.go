// Package command validates (binary, argument-list) pairs before they can
// reach the executor. The whitelist is a closed capability list — a
// deny-list of binary names would be trivially bypassed — and the argument
// scan is binary-agnostic: arguments are never passed through a shell, so
// any shell metacharacter is evidence of attempted injection rather than
// legitimate use.
package command

import (
	"strconv"
	"strings"
)

// Outcome is the closed set of validation results.
type Outcome string

const (
	OutcomeOK        Outcome = "OK"
	OutcomeForbidden Outcome = "FORBIDDEN_COMMAND"
	OutcomeInjection Outcome = "INJECTION_DETECTED"
)

// Spec is a validated command: the original binary token (case preserved)
// and its arguments, unchanged. Only Policy.Validate produces one.
type Spec struct {
	Binary string
	Args   []string
}

// String renders the command for audit entries.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Binary
	}
	return s.Binary + " " + strings.Join(s.Args, " ")
}

// Result carries the validated spec on success. Reason is audit detail and
// never includes the full offending argument.
type Result struct {
	Outcome Outcome
	Spec    Spec
	Reason  string
}

// DefaultBinaries is the stock whitelist: the version-control binary and
// the IDE's own CLI. Nothing else.
func DefaultBinaries() []string {
	return []string{"git", "cursor"}
}

// Policy holds the binary whitelist. Immutable after construction.
type Policy struct {
	allowed map[string]bool
}

// NewPolicy builds a policy from a whitelist; nil or empty falls back to
// DefaultBinaries.
func NewPolicy(binaries []string) *Policy {
	if len(binaries) == 0 {
		binaries = DefaultBinaries()
	}
	allowed := make(map[string]bool, len(binaries))
	for _, b := range binaries {
		allowed[normalizeBinary(b)] = true
	}
	return &Policy{allowed: allowed}
}

// Allowed returns the whitelist in normalized form, for status output.
func (p *Policy) Allowed() []string {
	out := make([]string, 0, len(p.allowed))
	for b := range p.allowed {
		out = append(out, b)
	}
	return out
}

// Validate checks the pair and returns it unchanged on success. The
// injection scan runs first and applies to every binary, whitelisted or
// not.
func (p *Policy) Validate(binary string, args []string) Result {
	for i, arg := range args {
		if marker := injectionMarker(arg); marker != "" {
			return Result{
				Outcome: OutcomeInjection,
				Reason:  "argument " + strconv.Itoa(i) + " contains " + marker,
			}
		}
	}

	if structuralInjection(binary, args) {
		return Result{
			Outcome: OutcomeInjection,
			Reason:  "argument list parses as compound shell structure",
		}
	}

	if !p.allowed[normalizeBinary(binary)] {
		return Result{
			Outcome: OutcomeForbidden,
			Reason:  "binary not in whitelist: " + binary,
		}
	}

	return Result{Outcome: OutcomeOK, Spec: Spec{Binary: binary, Args: args}}
}

// executableSuffixes are stripped before the whitelist comparison so
// "GIT.EXE" and "git" validate identically.
var executableSuffixes = []string{".exe", ".bat", ".cmd", ".com"}

func normalizeBinary(binary string) string {
	b := strings.ToLower(strings.TrimSpace(binary))
	for _, suffix := range executableSuffixes {
		b = strings.TrimSuffix(b, suffix)
	}
	return b
}

// injectionMarker returns the name of the first shell metacharacter found
// in an argument, or "" when the argument is clean.
func injectionMarker(arg string) string {
	markers := []struct {
		token string
		name  string
	}{
		{";", "command separator"},
		{"|", "pipe"},
		{"&", "background/chain operator"},
		{"`", "backtick substitution"},
		{"$(", "command substitution"},
		{"${", "variable expansion"},
		{"<", "input redirect"},
		{">", "output redirect"},
		{"\n", "newline"},
		{"\r", "carriage return"},
	}
	for _, m := range markers {
		if strings.Contains(arg, m.token) {
			return m.name
		}
	}
	return ""
}
