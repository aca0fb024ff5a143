package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsguard/sentinel/internal/kernel"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate a path against the sandbox",
	Long: `Resolve a path the way the kernel would for a remote request: relative
paths are anchored at the sandbox root, escapes and sensitive filenames
are refused, and the decision is audited.

  sentinel check project1/main.go
  sentinel check ../../etc/passwd`,
	Args: cobra.ExactArgs(1),
	RunE: checkCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, args []string) error {
	k, cfg, err := newKernel()
	if err != nil {
		return err
	}
	defer k.Close()

	res := k.ValidatePath(context.Background(), cfg.AuthorizedID, args[0])
	fmt.Printf("Outcome: %s\n", res.Outcome)
	if res.Outcome == kernel.OutcomeOK {
		fmt.Printf("Path:    %s\n", res.Path)
	}
	return nil
}
