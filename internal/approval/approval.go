// Package approval asks the local operator to confirm a command that the
// policy allowed but the threat scanner flagged. Non-interactive sessions
// always deny: a flagged command must never run without a human answer.
package approval

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type Result struct {
	Approved   bool
	UserAction string
}

type Prompt struct {
	Command string
	Level   string
	Matched []string
	Warning string
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func Ask(p Prompt) Result {
	if !IsInteractive() {
		return Result{
			Approved:   false,
			UserAction: "auto_deny_non_interactive",
		}
	}

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "=== CONFIRMATION REQUIRED ===")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "Command: %s\n", p.Command)
	if p.Level != "" {
		fmt.Fprintf(os.Stderr, "Threat level: %s\n", p.Level)
	}
	if len(p.Matched) > 0 {
		fmt.Fprintf(os.Stderr, "Matched: %s\n", strings.Join(p.Matched, ", "))
	}
	if p.Warning != "" {
		fmt.Fprintln(os.Stderr, p.Warning)
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "  [a] Approve once - execute this command")
	fmt.Fprintln(os.Stderr, "  [d] Deny - block this command")
	fmt.Fprintln(os.Stderr, "")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "Your choice [a/d]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return Result{
				Approved:   false,
				UserAction: "error_reading_input",
			}
		}

		input = strings.TrimSpace(strings.ToLower(input))

		switch input {
		case "a", "approve", "yes", "y":
			return Result{
				Approved:   true,
				UserAction: "approve_once",
			}
		case "d", "deny", "no", "n":
			return Result{
				Approved:   false,
				UserAction: "deny",
			}
		default:
			fmt.Fprintln(os.Stderr, "Invalid input. Please enter 'a' to approve or 'd' to deny.")
		}
	}
}
