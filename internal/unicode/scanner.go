// Package unicode detects character-level smuggling in free-form prompt
// text: zero-width characters, bidirectional overrides, Unicode tag
// characters, and raw control bytes. Such characters let an attacker hide
// instructions inside text that looks harmless on screen, so the prompt
// scanner treats any of them as a threat family of its own.
package unicode

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Finding is a single smuggling indicator found in the input.
type Finding struct {
	Category  string // "zero-width", "bidi-override", "tag-char", "control-char", "invalid-utf8"
	Codepoint string // e.g. "U+200B"
	Position  int    // byte offset in the input
}

// Result holds the outcome of a scan.
type Result struct {
	Clean    bool
	Findings []Finding
	// Sanitized is the input with every flagged character removed.
	Sanitized string
}

// runeClass pairs a category name with its membership predicate. The table
// is scanned in order; the first matching class wins.
var runeClasses = []struct {
	category string
	matches  func(r rune) bool
}{
	{"zero-width", isZeroWidth},
	{"bidi-override", isBidiOverride},
	{"tag-char", isTagChar},
	{"control-char", isUnsafeControl},
}

// Scan inspects text for smuggling indicators and returns the findings
// along with a sanitized copy.
func Scan(text string) Result {
	res := Result{Clean: true}
	var out strings.Builder

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		if r == utf8.RuneError && size == 1 {
			res.Clean = false
			res.Findings = append(res.Findings, Finding{
				Category:  "invalid-utf8",
				Codepoint: fmt.Sprintf("0x%02X", text[i]),
				Position:  i,
			})
			i++
			continue
		}

		if cat, ok := classify(r); ok {
			res.Clean = false
			res.Findings = append(res.Findings, Finding{
				Category:  cat,
				Codepoint: fmt.Sprintf("U+%04X", r),
				Position:  i,
			})
			i += size
			continue
		}

		out.WriteRune(r)
		i += size
	}

	res.Sanitized = out.String()
	return res
}

// Categories returns the distinct finding categories, in first-seen order.
func (r Result) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, f := range r.Findings {
		if !seen[f.Category] {
			seen[f.Category] = true
			cats = append(cats, f.Category)
		}
	}
	return cats
}

func classify(r rune) (string, bool) {
	for _, c := range runeClasses {
		if c.matches(r) {
			return c.category, true
		}
	}
	return "", false
}

func isZeroWidth(r rune) bool {
	switch r {
	case 0x200B, // zero width space
		0x200C, // zero width non-joiner
		0x200D, // zero width joiner
		0x2060, // word joiner
		0xFEFF: // zero width no-break space / BOM
		return true
	}
	return false
}

func isBidiOverride(r rune) bool {
	switch r {
	case 0x202A, 0x202B, 0x202C, 0x202D, 0x202E, // embedding/override
		0x2066, 0x2067, 0x2068, 0x2069: // isolates
		return true
	}
	return false
}

// isTagChar matches the Unicode tag block (U+E0000–U+E007F), used to embed
// invisible ASCII-parallel payloads.
func isTagChar(r rune) bool {
	return r >= 0xE0000 && r <= 0xE007F
}

// isUnsafeControl matches C0/C1 controls except tab, newline, and carriage
// return, which legitimately appear in multi-line prompts.
func isUnsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}
