package command

import (
	"regexp"
	"strings"
)

var (
	cmdSubstSpan  = regexp.MustCompile(`\$\([^)]*\)`)
	backtickSpan  = regexp.MustCompile("`[^`]*`")
	varExpandSpan = regexp.MustCompile(`\$\{[^}]*\}`)
	runOnSpace    = regexp.MustCompile(`\s+`)
)

// shellActive are the characters removed outright after span stripping.
// Dropping the bare "$" as well guarantees no "$(" can survive a partial
// span (an unclosed substitution has no closing paren for the span regex).
const shellActive = ";&|<>`$"

// Sanitize neutralizes shell-active content in free text (commit messages,
// prompts) destined to become a single subprocess argument. Defense in
// depth: the executor never invokes a shell, this just removes the
// ingredients an injection would need if that ever regresses.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\x00", "")

	// Remove complete substitution/expansion spans first so their payload
	// disappears with them.
	text = cmdSubstSpan.ReplaceAllString(text, "")
	text = backtickSpan.ReplaceAllString(text, "")
	text = varExpandSpan.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case strings.ContainsRune(shellActive, r):
			// dropped
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(runOnSpace.ReplaceAllString(b.String(), " "))
}
