package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsguard/sentinel/internal/approval"
	"github.com/opsguard/sentinel/internal/kernel"
	"github.com/opsguard/sentinel/internal/promptguard"
)

var (
	execDir     string
	execTimeout time.Duration
)

var execCmd = &cobra.Command{
	Use:   "exec -- <binary> [args]...",
	Short: "Run a command through the full validation pipeline",
	Long: `Validate and execute a command exactly as a remote request would be:
identity guard, command whitelist, injection scan, sandboxed working
directory, filtered environment, capped output. When the command is
allowed but its free-text arguments trip the threat scanner, execution
requires interactive confirmation.

  sentinel exec -- git status
  sentinel exec --dir project1 --timeout 30s -- git log --oneline`,
	Args: cobra.MinimumNArgs(1),
	RunE: execCommand,
}

func init() {
	execCmd.Flags().StringVar(&execDir, "dir", "", "Working directory relative to the sandbox root")
	execCmd.Flags().DurationVar(&execTimeout, "timeout", 0, "Override the configured command timeout")
	rootCmd.AddCommand(execCmd)
}

func execCommand(cmd *cobra.Command, args []string) error {
	k, cfg, err := newKernel()
	if err != nil {
		return err
	}
	defer k.Close()
	if execTimeout > 0 {
		cfg.CommandTimeout = execTimeout
		cfg.AgentTimeout = execTimeout
	}

	binary, rest := args[0], args[1:]

	// Free-text arguments (commit messages, agent prompts) get the same
	// scan a chat prompt would. A flagged command may still run, but only
	// after the operator confirms it at the terminal.
	if flagged := scanArgs(cfg.StrictPrompts, rest); flagged != nil {
		res := approval.Ask(approval.Prompt{
			Command: binary + " " + strings.Join(rest, " "),
			Level:   flagged.Level.String(),
			Matched: flagged.Matched,
			Warning: flagged.Warning,
		})
		if !res.Approved {
			fmt.Printf("Denied (%s)\n", res.UserAction)
			return nil
		}
	}

	out := k.RunCommand(context.Background(), cfg.AuthorizedID, binary, rest, execDir)
	fmt.Printf("Outcome: %s\n", out.Outcome)
	if out.Outcome == kernel.OutcomeOK || out.Outcome == kernel.OutcomeExecutionFailed {
		fmt.Printf("Exit:    %d (%s)\n", out.ExitCode, out.Duration.Round(time.Millisecond))
		if out.Stdout != "" {
			fmt.Print(out.Stdout)
			if !strings.HasSuffix(out.Stdout, "\n") {
				fmt.Println()
			}
		}
		if out.Stderr != "" {
			fmt.Fprint(os.Stderr, out.Stderr)
			if !strings.HasSuffix(out.Stderr, "\n") {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
	return nil
}

// scanArgs returns the assessment when any free-text argument is flagged,
// nil when everything looks clean.
func scanArgs(strict bool, args []string) *promptguard.Assessment {
	scanner := promptguard.New(strict)
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if a := scanner.Scan(arg); !a.Safe {
			return &a
		}
	}
	return nil
}
