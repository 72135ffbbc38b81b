// Package cmd is the command line interface of go-shard.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-shard/config"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Branch is the git branch used to build the App. Designed to be overwritten by make.
	Branch string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// NewRootCmd returns the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	root := &cobra.Command{
		Use:           "go-shard",
		Short:         "Local ledger of the Shard governance token",
		Version:       fmt.Sprintf("%s+%s+%s", Version, Branch, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "load configuration from file")
	root.PersistentFlags().StringP("data-dir", "d", defaults.DataDir, "directory with the token database")
	root.PersistentFlags().String("log-level", defaults.Logging.Level, "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("metrics", defaults.Metrics.Enabled, "serve prometheus metrics while the command runs")

	root.AddCommand(
		initCmd(),
		mineCmd(),
		balanceCmd(),
		votesCmd(),
		transferCmd(),
		approveCmd(),
		delegateCmd(),
		mintCmd(),
		keygenCmd(),
		signCmd(),
		submitCmd(),
		claimCmd(),
		statusCmd(),
		inspectCmd(),
	)
	return root
}

// Execute runs the root command until it completes or the process is interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return NewRootCmd().ExecuteContext(ctx)
}
