// Package envfilter builds the reduced environment handed to child
// processes. The parent holds bot tokens and agent API keys in its own
// environment; a spawned git or IDE CLI must not be able to read them, so
// the filter works allow-list first and then double-checks both names and
// values against secret shapes.
package envfilter

import (
	"os"
	"sort"
	"strings"

	"github.com/opsguard/sentinel/internal/redact"
)

// allowedNames is the closed set of variables a child process may inherit.
// Anything not listed is dropped regardless of content.
var allowedNames = []string{
	// Core process environment
	"PATH", "HOME", "USER", "USERNAME", "SHELL", "TERM", "COLORTERM",
	"LANG", "LC_ALL", "LC_CTYPE", "TZ",
	"TEMP", "TMP", "TMPDIR",
	"EDITOR", "VISUAL", "PAGER", "LESS", "DISPLAY",
	"XDG_RUNTIME_DIR", "XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_CACHE_HOME",

	// Windows equivalents
	"PATHEXT", "SYSTEMROOT", "WINDIR", "COMSPEC",
	"HOMEDRIVE", "HOMEPATH", "USERPROFILE", "APPDATA", "LOCALAPPDATA",
	"PROGRAMFILES", "PROGRAMFILES(X86)", "COMMONPROGRAMFILES",
	"PROCESSOR_ARCHITECTURE", "NUMBER_OF_PROCESSORS", "OS", "COMPUTERNAME",

	// Git needs these to produce correct commits
	"GIT_EXEC_PATH", "GIT_TEMPLATE_DIR", "GIT_SSL_CAINFO",
	"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL",
	"GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL",
}

// sensitiveFragments disqualify a variable even when its name is on the
// allow list (defense against an allow-list edit gone wrong) and drive the
// name check in tests.
var sensitiveFragments = []string{
	"TOKEN", "SECRET", "PASSWORD", "PASSWD", "CREDENTIAL",
	"API_KEY", "APIKEY", "PRIVATE", "OAUTH", "AUTH_TOKEN",
	"AWS_", "AZURE_", "GCP_", "TELEGRAM",
}

// Safe returns the filtered copy of the current process environment.
func Safe() map[string]string {
	return SafeFrom(os.Environ())
}

// SafeFrom filters an explicit environment block, given as "KEY=VALUE"
// strings. Exposed separately so tests can exercise the filter without
// mutating the process environment.
func SafeFrom(environ []string) map[string]string {
	allowed := make(map[string]bool, len(allowedNames))
	for _, name := range allowedNames {
		allowed[name] = true
	}

	safe := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		upper := strings.ToUpper(name)
		if !allowed[upper] {
			continue
		}
		if nameLooksSensitive(upper) {
			continue
		}
		if redact.ValueLooksSecret(value) {
			continue
		}
		safe[name] = value
	}
	return safe
}

// Slice renders a filtered environment back into the "KEY=VALUE" form
// expected by os/exec, sorted for deterministic audit output.
func Slice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func nameLooksSensitive(upper string) bool {
	for _, frag := range sensitiveFragments {
		if strings.Contains(upper, frag) {
			return true
		}
	}
	return false
}
