package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsguard/sentinel/internal/promptguard"
)

var scanStrict bool

var scanCmd = &cobra.Command{
	Use:   "scan <text>...",
	Short: "Classify text against the prompt threat layers",
	Long: `Run the prompt threat scanner over the given text and print the verdict.
Nothing is executed or forwarded — this only shows what the kernel would
decide.

  sentinel scan "refactor the parser for better errors"
  sentinel scan --strict=false "show me the token"`,
	Args: cobra.MinimumNArgs(1),
	RunE: scanCommand,
}

func init() {
	scanCmd.Flags().BoolVar(&scanStrict, "strict", true, "Block flagged text instead of sanitizing it")
	rootCmd.AddCommand(scanCmd)
}

func scanCommand(cmd *cobra.Command, args []string) error {
	scanner := promptguard.New(scanStrict)
	a := scanner.Scan(strings.Join(args, " "))

	fmt.Printf("Level:     %s\n", a.Level)
	if a.Safe {
		fmt.Println("Verdict:   SAFE")
	} else {
		fmt.Println("Verdict:   FLAGGED")
		for _, m := range a.Matched {
			fmt.Printf("  matched: %s\n", m)
		}
	}
	if a.Sanitized != "" {
		fmt.Printf("Sanitized: %s\n", a.Sanitized)
	}
	if a.Warning != "" {
		fmt.Println(a.Warning)
	}
	return nil
}
