package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsguard/sentinel/internal/audit"
	"github.com/opsguard/sentinel/internal/config"
)

var logLast int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print recent audit log entries",
	Long: `Print the most recent audit entries, newest last.

  sentinel log
  sentinel log -n 50`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().IntVarP(&logLast, "last", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	entries, err := audit.Tail(cfg.LogPath, logLast)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No audit log entries found.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-24s  id=%d  %s\n", e.Timestamp, e.Event, e.Identity, e.Detail)
	}
	return nil
}
