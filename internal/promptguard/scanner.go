package promptguard

import (
	"strings"

	"github.com/opsguard/sentinel/internal/command"
	"github.com/opsguard/sentinel/internal/unicode"
)

// idPrefixLen bounds how much of a pattern appears in a matched-pattern
// identifier. Enough for an operator to recognize the family, not enough
// to reconstruct the detection surface from logs.
const idPrefixLen = 24

// Warning messages, the only chat-facing text the kernel produces. The two
// severities get distinct wording so the operator can tell an extraction
// attempt from an ordinary rejected phrasing.
const (
	warnCritical = "Security alert: the request was blocked because it appears to attempt to extract sensitive information or execute dangerous commands. This incident has been logged."
	warnBlocked  = "Request blocked: the request contains patterns that are not allowed for security reasons. Please rephrase it."
	warnSanitize = "Warning: the request contained suspicious patterns and has been sanitized."
)

// Scanner evaluates text against the detection layers. Construct once and
// share freely: scanning reads only immutable compiled state.
type Scanner struct {
	strict bool
	layers []layer
}

// New builds a scanner. In strict mode unsafe text is blocked outright; in
// non-strict mode a best-effort sanitized copy is produced instead, though
// the assessment still reports the text as unsafe.
func New(strict bool) *Scanner {
	return &Scanner{strict: strict, layers: buildLayers()}
}

// Strict reports the configured mode.
func (s *Scanner) Strict() bool { return s.strict }

// Scan classifies one piece of text. Every layer runs unconditionally and
// the maximum severity wins.
func (s *Scanner) Scan(text string) Assessment {
	if strings.TrimSpace(text) == "" {
		return Assessment{Safe: true, Level: LevelSafe, Sanitized: ""}
	}

	var matched []string
	max := LevelSafe

	// Character-level pre-pass: invisible or reordering characters can
	// hide instructions from the pattern layers below, so their presence
	// is a threat family of its own. The pattern layers then run against
	// the de-smuggled text.
	uniRes := unicode.Scan(text)
	if !uniRes.Clean {
		for _, cat := range uniRes.Categories() {
			matched = append(matched, layerUnicode+": "+cat)
		}
		if LevelBlocked > max {
			max = LevelBlocked
		}
	}
	scannable := uniRes.Sanitized

	for _, l := range s.layers {
		for _, p := range l.patterns {
			if p.MatchString(scannable) {
				matched = append(matched, patternID(l.tag, p.String()))
				if l.level > max {
					max = l.level
				}
			}
		}
	}

	safe := max == LevelSafe
	out := Assessment{Safe: safe, Level: max, Matched: matched}

	switch {
	case safe:
		out.Sanitized = command.Sanitize(scannable)
	case s.strict:
		out.Sanitized = ""
		out.Warning = warningFor(max)
	default:
		out.Sanitized = command.Sanitize(scannable)
		out.Warning = warnSanitize
	}
	return out
}

// PathIsSafe gates a file-read request mentioned in chat, independent of
// sandbox membership: it reuses the data-exfiltration layer plus the
// explicit sensitive-filename list shared with the path sandbox.
func (s *Scanner) PathIsSafe(path string) (bool, string) {
	for _, l := range s.layers {
		if l.tag != layerDataExfiltration {
			continue
		}
		for _, p := range l.patterns {
			if p.MatchString(path) {
				return false, "access to this file type is blocked"
			}
		}
	}

	lower := strings.ToLower(path)
	for _, name := range sensitiveFileNames {
		if strings.Contains(lower, name) {
			return false, "access to " + name + " files is blocked"
		}
	}
	return true, ""
}

// patternID builds a truncated identifier: layer tag plus a prefix of the
// pattern text.
func patternID(tag, pattern string) string {
	if len(pattern) > idPrefixLen {
		pattern = pattern[:idPrefixLen] + "..."
	}
	return tag + ": " + pattern
}

func warningFor(l Level) string {
	if l >= LevelCritical {
		return warnCritical
	}
	return warnBlocked
}
