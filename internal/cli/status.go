package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show active configuration - identity, sandbox, whitelist, audit log",
	RunE:  statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	k, cfg, err := newKernel()
	if err != nil {
		return err
	}
	defer k.Close()

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}

	fmt.Printf("Binary:        %s (%s)\n", binPath, Version)
	fmt.Printf("Identity:      %d\n", cfg.AuthorizedID)
	fmt.Printf("Sandbox root:  %s\n", k.SandboxRoot())
	fmt.Printf("Whitelist:     %s\n", strings.Join(k.AllowedBinaries(), ", "))
	fmt.Printf("Strict scan:   %v\n", cfg.StrictPrompts)
	fmt.Printf("Audit log:     %s\n", k.LogPath())
	fmt.Printf("Timeouts:      command %s, agent %s\n", cfg.CommandTimeout, cfg.AgentTimeout)
	fmt.Printf("Rate limit:    %d attempts / %s window / %s lockout\n",
		cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window, cfg.RateLimit.Lockout)
	return nil
}
