// Package kernel is the composition root: it owns one explicitly
// constructed instance of each validator plus the executor and the audit
// log, and exposes the three operations the chat dispatcher consumes.
// Every request passes the admission chain first, then the validators
// relevant to it; the audit log receives an entry at each boundary.
package kernel

import (
	"context"
	"strings"
	"time"

	"github.com/opsguard/sentinel/internal/audit"
	"github.com/opsguard/sentinel/internal/command"
	"github.com/opsguard/sentinel/internal/config"
	"github.com/opsguard/sentinel/internal/envfilter"
	"github.com/opsguard/sentinel/internal/executor"
	"github.com/opsguard/sentinel/internal/guard"
	"github.com/opsguard/sentinel/internal/promptguard"
	"github.com/opsguard/sentinel/internal/sandbox"
)

// Outcome is the closed set of results a kernel operation can produce.
type Outcome string

const (
	OutcomeOK                Outcome = "OK"
	OutcomeUnauthorized      Outcome = "UNAUTHORIZED"
	OutcomePathTraversal     Outcome = "PATH_TRAVERSAL"
	OutcomeSensitiveFile     Outcome = "SENSITIVE_FILE"
	OutcomeForbiddenCommand  Outcome = "FORBIDDEN_COMMAND"
	OutcomeInjectionDetected Outcome = "INJECTION_DETECTED"
	OutcomePromptBlocked     Outcome = "PROMPT_BLOCKED"
	OutcomeBinaryNotFound    Outcome = "BINARY_NOT_FOUND"
	OutcomeTimeout           Outcome = "TIMEOUT"
	OutcomeExecutionFailed   Outcome = "EXECUTION_FAILED"
)

// PathResult is the answer to a path validation request. Path is set only
// on OK.
type PathResult struct {
	Outcome Outcome
	Path    string
}

// ExecResult is the answer to a command request. Output fields are set
// only when the command actually ran.
type ExecResult struct {
	Outcome  Outcome
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ScanResult is the answer to a prompt scan. Text is what may be forwarded
// to the agent: the input when safe, a sanitized copy in non-strict mode,
// empty when blocked. Warning is the chat-facing message, set when the
// scan flagged anything.
type ScanResult struct {
	Outcome Outcome
	Level   promptguard.Level
	Text    string
	Warning string
}

// Kernel wires the validators together. Construct with New; all fields
// are set once and never mutated, so a Kernel is safe for concurrent use.
// The audit log is the only serialized writer.
type Kernel struct {
	cfg     *config.Config
	guard   *guard.Guard
	limiter *guard.Limiter
	sandbox *sandbox.Sandbox
	policy  *command.Policy
	scanner *promptguard.Scanner
	exec    executor.Executor
	log     *audit.Log

	admit guard.Handler
}

// New builds a kernel from validated configuration. The admission chain
// (rate limiter around the identity guard) is composed here, once.
func New(cfg *config.Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := audit.Open(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	box, err := sandbox.New(cfg.SandboxRoot)
	if err != nil {
		log.Close()
		return nil, err
	}

	k := &Kernel{
		cfg:     cfg,
		guard:   guard.New(cfg.AuthorizedID, log),
		limiter: guard.NewLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window, cfg.RateLimit.Lockout, log),
		sandbox: box,
		policy:  command.NewPolicy(cfg.AllowedBinaries),
		scanner: promptguard.New(cfg.StrictPrompts),
		log:     log,
	}
	k.admit = guard.Chain(func(context.Context, int64) error { return nil },
		k.limiter.Intercept, k.guard.Intercept)
	return k, nil
}

// Close releases the audit log.
func (k *Kernel) Close() error { return k.log.Close() }

// SandboxRoot returns the canonical sandbox root.
func (k *Kernel) SandboxRoot() string { return k.sandbox.Root() }

// AllowedBinaries returns the active command whitelist.
func (k *Kernel) AllowedBinaries() []string { return k.policy.Allowed() }

// LogPath returns the audit log location.
func (k *Kernel) LogPath() string { return k.cfg.LogPath }

func (k *Kernel) authorized(ctx context.Context, id int64) bool {
	return k.admit(ctx, id) == nil
}

// ValidatePath resolves raw against the sandbox root. An Unauthorized
// result carries no path detail.
func (k *Kernel) ValidatePath(ctx context.Context, id int64, raw string) PathResult {
	if !k.authorized(ctx, id) {
		return PathResult{Outcome: OutcomeUnauthorized}
	}

	res := k.sandbox.Validate(raw)
	switch res.Outcome {
	case sandbox.OutcomeTraversal:
		k.log.Record(id, audit.EventPathTraversal, raw)
		return PathResult{Outcome: OutcomePathTraversal}
	case sandbox.OutcomeSensitive:
		k.log.Record(id, audit.EventSensitiveFile, res.Rel+" ("+res.Rule+")")
		return PathResult{Outcome: OutcomeSensitiveFile}
	}
	return PathResult{Outcome: OutcomeOK, Path: res.Path}
}

// RunCommand runs the full pipeline: admission, command policy, sandbox
// resolution of the working directory, environment filtering, execution.
// relDir is interpreted against the sandbox root; empty means the root
// itself.
func (k *Kernel) RunCommand(ctx context.Context, id int64, binary string, args []string, relDir string) ExecResult {
	if !k.authorized(ctx, id) {
		return ExecResult{Outcome: OutcomeUnauthorized}
	}

	pol := k.policy.Validate(binary, args)
	switch pol.Outcome {
	case command.OutcomeForbidden:
		attempted := command.Spec{Binary: binary, Args: args}.String()
		k.log.Record(id, audit.EventForbiddenCmd, attempted)
		return ExecResult{Outcome: OutcomeForbiddenCommand, Command: attempted}
	case command.OutcomeInjection:
		k.log.Record(id, audit.EventInjection, pol.Reason)
		return ExecResult{Outcome: OutcomeInjectionDetected}
	}

	dir := k.sandbox.Validate(relDir)
	switch dir.Outcome {
	case sandbox.OutcomeTraversal:
		k.log.Record(id, audit.EventPathTraversal, relDir)
		return ExecResult{Outcome: OutcomePathTraversal}
	case sandbox.OutcomeSensitive:
		k.log.Record(id, audit.EventSensitiveFile, dir.Rel+" ("+dir.Rule+")")
		return ExecResult{Outcome: OutcomeSensitiveFile}
	}

	env := envfilter.Slice(envfilter.Safe())
	run := k.exec.Run(ctx, pol.Spec, dir.Path, env, k.timeoutFor(binary))

	out := ExecResult{
		Command:  run.Command,
		ExitCode: run.ExitCode,
		Stdout:   run.Stdout,
		Stderr:   run.Stderr,
		Duration: run.Duration,
	}
	switch run.Outcome {
	case executor.OutcomeOK:
		out.Outcome = OutcomeOK
		k.log.Record(id, audit.EventCommandExecuted, run.Command)
	case executor.OutcomeBinaryNotFound:
		out.Outcome = OutcomeBinaryNotFound
		k.log.Record(id, audit.EventCommandFailed, run.Command+" (not found)")
	case executor.OutcomeTimeout:
		out.Outcome = OutcomeTimeout
		k.log.Record(id, audit.EventCommandFailed, run.Command+" (timeout)")
	default:
		out.Outcome = OutcomeExecutionFailed
		k.log.Record(id, audit.EventCommandFailed, run.Command)
	}
	return out
}

// ScanPrompt classifies text headed for the coding agent. In strict mode a
// flagged prompt is blocked outright; in non-strict mode a sanitized copy
// is returned with the outcome still OK, and either way the threat is
// audited.
func (k *Kernel) ScanPrompt(ctx context.Context, id int64, text string) ScanResult {
	if !k.authorized(ctx, id) {
		return ScanResult{Outcome: OutcomeUnauthorized}
	}

	a := k.scanner.Scan(text)
	if a.Safe {
		return ScanResult{Outcome: OutcomeOK, Level: a.Level, Text: a.Sanitized}
	}

	k.log.Record(id, audit.EventPromptThreat, a.Level.String()+": "+strings.Join(a.Matched, ", "))
	if k.scanner.Strict() {
		return ScanResult{Outcome: OutcomePromptBlocked, Level: a.Level, Warning: a.Warning}
	}
	return ScanResult{Outcome: OutcomeOK, Level: a.Level, Text: a.Sanitized, Warning: a.Warning}
}

// timeoutFor gives agent invocations their longer budget.
func (k *Kernel) timeoutFor(binary string) time.Duration {
	b := strings.ToLower(strings.TrimSpace(binary))
	for _, suffix := range []string{".exe", ".bat", ".cmd", ".com"} {
		b = strings.TrimSuffix(b, suffix)
	}
	if b == "cursor" {
		if k.cfg.AgentTimeout > 0 {
			return k.cfg.AgentTimeout
		}
		return executor.AgentTimeout
	}
	if k.cfg.CommandTimeout > 0 {
		return k.cfg.CommandTimeout
	}
	return executor.DefaultTimeout
}
