// Package sandbox confines every filesystem path the bridge touches to a
// single configured root. Validation resolves paths through the real
// filesystem (so symlinks cannot smuggle a path outside the root) and then
// applies a sensitive-name deny list: being inside the sandbox is necessary
// but not sufficient for access.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Outcome is the closed set of validation results.
type Outcome string

const (
	OutcomeOK        Outcome = "OK"
	OutcomeTraversal Outcome = "PATH_TRAVERSAL"
	OutcomeSensitive Outcome = "SENSITIVE_FILE"
)

// Result carries the validated path on success. Rel is the sandbox-relative
// form, the only part safe to echo back to a remote caller; Rule names the
// deny rule that matched and is meant for the audit log, never for users.
type Result struct {
	Outcome Outcome
	Path    string
	Rel     string
	Rule    string
}

// Sandbox validates paths against one immutable root. Validation is pure
// apart from reading the filesystem, so a single instance is safe for
// concurrent use.
type Sandbox struct {
	root string
}

// New canonicalizes root and requires it to be an existing directory.
func New(root string) (*Sandbox, error) {
	if root == "" {
		return nil, fmt.Errorf("sandbox root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("sandbox root does not resolve: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root is not a directory: %s", resolved)
	}
	return &Sandbox{root: resolved}, nil
}

// Root returns the canonical sandbox root.
func (s *Sandbox) Root() string { return s.root }

// Validate checks a raw path against the sandbox. The path may be relative
// (joined with the root) or absolute; it does not have to exist — a path
// that will be created later is still validated syntactically, with symlink
// resolution applied to its deepest existing ancestor.
func (s *Sandbox) Validate(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." {
		return Result{Outcome: OutcomeOK, Path: s.root, Rel: "."}
	}

	// Normalize separator style before any splitting so "a\b" and "a/b"
	// validate identically on every platform.
	raw = strings.ReplaceAll(raw, "\\", "/")
	raw = filepath.FromSlash(raw)

	target := raw
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.root, target)
	}

	canonical, err := resolveExisting(filepath.Clean(target))
	if err != nil {
		return Result{Outcome: OutcomeTraversal}
	}

	rel, err := filepath.Rel(s.root, canonical)
	if err != nil || escapesRoot(rel) {
		return Result{Outcome: OutcomeTraversal}
	}

	if rule := matchDenyList(rel); rule != "" {
		return Result{Outcome: OutcomeSensitive, Rel: rel, Rule: rule}
	}

	return Result{Outcome: OutcomeOK, Path: canonical, Rel: rel}
}

// resolveExisting canonicalizes a path through the filesystem. When the
// full path does not exist it resolves the deepest existing ancestor and
// re-joins the remaining lexical suffix, so nonexistent paths still get
// symlink-safe treatment for every component that does exist.
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	var suffix []string
	current := path
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return "", os.ErrNotExist
		}
		suffix = append([]string{filepath.Base(current)}, suffix...)
		resolved, err = filepath.EvalSymlinks(parent)
		if err == nil {
			return filepath.Clean(filepath.Join(append([]string{resolved}, suffix...)...)), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		current = parent
	}
}

// escapesRoot reports whether a Rel result points outside the root. The
// comparison is component-wise: "../x" escapes, "..x" does not.
func escapesRoot(rel string) bool {
	if rel == ".." {
		return true
	}
	return strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
