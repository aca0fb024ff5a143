// Package promptguard classifies free-form natural-language text before it
// is forwarded to the autonomous coding agent. Detection is pattern-based
// and best-effort: five independent layers each vote a severity, every
// layer always runs, and the maximum severity wins. False positives are
// expected — "add a delete-all-items button" looks like a destructive
// verb — which is why a non-strict sanitize-and-warn mode exists alongside
// the hard-block mode.
package promptguard

// Level is the ordered threat severity assigned to scanned text.
type Level int

const (
	LevelSafe Level = iota
	LevelSuspicious
	LevelBlocked
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "SAFE"
	case LevelSuspicious:
		return "SUSPICIOUS"
	case LevelBlocked:
		return "BLOCKED"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Assessment is the result of scanning one piece of text.
type Assessment struct {
	// Safe is true only when no layer matched.
	Safe bool

	// Level is the maximum severity across all matched layers.
	Level Level

	// Matched lists truncated pattern identifiers, one per matched
	// pattern. Identifiers carry the layer tag and a prefix of the
	// pattern, never its full text, so logs cannot teach an adversary
	// the exact bypass surface.
	Matched []string

	// Sanitized is a cleaned copy of the input: the input itself (modulo
	// whitespace normalization) when safe, a best-effort stripped copy in
	// non-strict mode, and empty when blocked in strict mode.
	Sanitized string

	// Warning is the severity-specific user-facing message, empty when
	// safe. It is the only chat-facing text this kernel produces.
	Warning string
}
