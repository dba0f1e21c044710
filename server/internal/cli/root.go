package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags:
//
//	go build -ldflags "-X github.com/creditlens/creditscore/server/internal/cli.Version=1.0.0
//	  -X github.com/creditlens/creditscore/server/internal/cli.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "none"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "creditscore",
		Short:        "Credit score API for small businesses",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (defaults apply when empty)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging with source locations")

	cmd.AddCommand(
		newServeCmd(flags),
		newScoreCmd(),
		newProbeCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "creditscore %s (commit=%s)\n", Version, Commit)
		},
	}
}
