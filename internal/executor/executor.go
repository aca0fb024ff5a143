// Package executor launches validated commands. It is the only place in
// the kernel that starts a subprocess, and it deliberately performs no
// validation of its own: callers hand it a command spec, working directory
// and environment that already passed the policy, sandbox and filter.
package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/opsguard/sentinel/internal/command"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeOK              Outcome = "OK"
	OutcomeBinaryNotFound  Outcome = "BINARY_NOT_FOUND"
	OutcomeTimeout         Outcome = "TIMEOUT"
	OutcomeExecutionFailed Outcome = "EXECUTION_FAILED"
)

// MaxOutputBytes caps each captured stream. Chat transports choke on large
// payloads long before this, so anything bigger is noise.
const MaxOutputBytes = 50 * 1024

// DefaultTimeout bounds ordinary commands; AgentTimeout bounds invocations
// of the coding agent, which legitimately runs for minutes.
const (
	DefaultTimeout = 120 * time.Second
	AgentTimeout   = 600 * time.Second
)

const truncationMarker = "\n... (output truncated)"

// Result of one subprocess run. Stdout and Stderr are capped; Command is
// the display form of what ran. The environment handed to the child is
// never echoed back.
type Result struct {
	Outcome  Outcome
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs commands with argv semantics. The zero value is usable.
type Executor struct{}

// Run executes spec in dir with exactly the given environment, bounded by
// timeout. A non-positive timeout falls back to DefaultTimeout. The call
// blocks until the child exits or the deadline fires; it is safe to invoke
// from any goroutine.
func (Executor) Run(ctx context.Context, spec command.Spec, dir string, env []string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...)
	cmd.Dir = dir
	cmd.Env = env

	var stdout, stderr cappedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Command:  spec.String(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.Outcome = OutcomeOK
	case ctx.Err() == context.DeadlineExceeded:
		res.Outcome = OutcomeTimeout
		res.ExitCode = -1
	case isNotFound(err):
		res.Outcome = OutcomeBinaryNotFound
		res.ExitCode = -1
	default:
		res.Outcome = OutcomeExecutionFailed
		res.ExitCode = exitCode(err)
	}
	return res
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// cappedBuffer accepts writes up to MaxOutputBytes, then appends a single
// truncation marker and swallows the rest. Never returns an error, so a
// chatty child keeps draining instead of dying on a broken pipe.
type cappedBuffer struct {
	buf       []byte
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.truncated {
		return len(p), nil
	}
	room := MaxOutputBytes - len(b.buf)
	if room >= len(p) {
		b.buf = append(b.buf, p...)
		return len(p), nil
	}
	b.buf = append(b.buf, p[:room]...)
	b.buf = append(b.buf, truncationMarker...)
	b.truncated = true
	return len(p), nil
}

func (b *cappedBuffer) String() string { return string(b.buf) }
