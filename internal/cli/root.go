package cli

import (
	"github.com/spf13/cobra"

	"github.com/opsguard/sentinel/internal/config"
	"github.com/opsguard/sentinel/internal/kernel"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - validation kernel for a chat-driven dev sandbox",
	Long: `Sentinel is the security choke point between a remote chat operator and
a local development sandbox. Every inbound instruction — a file path, a
command, a prompt for the coding agent — passes its identity guard, path
sandbox, command policy and threat scanner before anything touches the
filesystem or a subprocess.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (default: ~/.sentinel/config.yaml)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newKernel loads config and builds the kernel for a subcommand run.
func newKernel() (*kernel.Kernel, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	k, err := kernel.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return k, cfg, nil
}
