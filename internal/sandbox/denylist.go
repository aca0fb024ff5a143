package sandbox

import (
	"path/filepath"
	"regexp"
	"strings"
)

// segmentRule flags a single path component. Rules run case-insensitively
// against every segment of the sandbox-relative path, not just the
// basename, so "project/.ssh/known_hosts" is caught by its middle segment.
type segmentRule struct {
	name  string
	match func(segment string) bool
}

var segmentRules = []segmentRule{
	{"env-file", func(s string) bool {
		return s == ".env" || strings.HasSuffix(s, ".env") || strings.Contains(s, ".env.")
	}},
	{"ssh-private-key", func(s string) bool {
		return strings.Contains(s, "id_rsa") || strings.Contains(s, "id_ed25519") || strings.Contains(s, "id_ecdsa")
	}},
	{"key-material", func(s string) bool {
		for _, ext := range []string{".pem", ".key", ".p12", ".pfx"} {
			if strings.HasSuffix(s, ext) {
				return true
			}
		}
		return false
	}},
	{"credentials", func(s string) bool {
		return strings.Contains(s, "credentials")
	}},
	{"secrets-config", func(s string) bool {
		return secretsFilePattern.MatchString(s)
	}},
	{"dotfile-config", func(s string) bool {
		switch s {
		case ".ssh", ".gitconfig", ".npmrc", ".pypirc", ".netrc",
			".aws", ".azure", ".gnupg", ".kube":
			return true
		}
		return false
	}},
}

var secretsFilePattern = regexp.MustCompile(`^secrets?\.(json|ya?ml|xml|toml|env)$`)

// pairRules flag a directory segment immediately followed by a specific
// child, e.g. ".git/config" is sensitive while ".git" itself is not — the
// bridge legitimately runs git inside the sandbox.
var pairRules = []struct {
	name   string
	parent string
	child  string
}{
	{"git-config", ".git", "config"},
	{"docker-config", ".docker", "config.json"},
	{"gcloud-config", ".config", "gcloud"},
}

// matchDenyList returns the name of the first rule matched by any segment
// of the relative path, or "" when the path is clean.
func matchDenyList(rel string) string {
	segments := strings.Split(filepath.ToSlash(strings.ToLower(rel)), "/")

	for _, seg := range segments {
		for _, rule := range segmentRules {
			if rule.match(seg) {
				return rule.name
			}
		}
	}

	for i := 0; i+1 < len(segments); i++ {
		for _, rule := range pairRules {
			if segments[i] == rule.parent && segments[i+1] == rule.child {
				return rule.name
			}
		}
	}

	return ""
}
