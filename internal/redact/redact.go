// Package redact strips secret material from strings before they reach the
// audit log or an error message. The patterns target the credentials this
// bridge actually holds: chat-bot tokens, API keys for the coding agent,
// and the usual cloud/VCS token shapes.
package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	// Chat-bot tokens (numeric bot ID, colon, 35-char secret)
	regexp.MustCompile(`\b\d{8,10}:[A-Za-z0-9_-]{35}\b`),

	// Key/value assignments that carry credentials
	regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|access[_-]?token|auth[_-]?token|bot[_-]?token)\s*[=:]\s*['"]?[A-Za-z0-9_\-./+]{12,}['"]?`),
	regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*['"]?[^\s'"]{6,}['"]?`),

	// Provider-specific token shapes
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`gho_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`ghs_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]{10,}`),

	// Bearer headers and basic-auth URLs
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),

	// PEM blocks
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
}

// String replaces every recognized secret shape in s with a placeholder.
func String(s string) string {
	out := s
	for _, p := range secretPatterns {
		out = p.ReplaceAllString(out, placeholder)
	}
	return out
}

// Args redacts each argument independently.
func Args(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = String(a)
	}
	return out
}

// ValueLooksSecret reports whether a bare value (no key context) matches a
// known token shape. Used by the environment filter to drop variables whose
// value is plainly a credential even when the name looks harmless.
func ValueLooksSecret(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, p := range valuePatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

// valuePatterns are the subset of secretPatterns that make sense against a
// standalone value rather than a key=value assignment.
var valuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{8,10}:[A-Za-z0-9_-]{35}$`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`^ghp_[A-Za-z0-9]{36}$`),
	regexp.MustCompile(`^gho_[A-Za-z0-9]{36}$`),
	regexp.MustCompile(`^ghs_[A-Za-z0-9]{36}$`),
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{20,}$`),
	regexp.MustCompile(`^xox[baprs]-[0-9A-Za-z-]{10,}$`),
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
}
