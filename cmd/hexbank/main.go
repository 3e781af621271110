// Command hexbank builds hybrid hexagonal template banks in the τ0/τ3
// chirp-time plane and manages stored banks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/hexbank/internal/config"
	"github.com/banshee-data/hexbank/internal/monitoring"
	"github.com/banshee-data/hexbank/internal/version"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(env).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with flag defaults taken from env.
// Each call returns an independent tree so tests can run commands in
// isolation.
func newRootCmd(env config.Env) *cobra.Command {
	var (
		verbose bool
		logger  *zap.Logger
	)

	root := &cobra.Command{
		Use:           "hexbank",
		Short:         "Hybrid hexagonal template bank placement",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := monitoring.NewZapLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			monitoring.UseZap(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", env.Verbose, "Enable debug logging (HEXBANK_VERBOSE)")

	root.AddCommand(newGenerateCmd(env), newListCmd(env), newExportCmd(env), newDeleteCmd(env), newMigrateCmd(env))
	return root
}
