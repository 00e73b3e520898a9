package main

import (
	"github.com/spf13/cobra"

	"debloat/internal/executor"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(executor.ExecRunner{})
}

func buildRootCommand(runner executor.Runner) *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var dryRun bool

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag, runner)

	rootCmd := &cobra.Command{
		Use:           "debloat",
		Short:         "Shrink a song library by converting media and deleting leftovers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryPass(cmd, ctx, dryRun)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Override logging.format (console, json)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the run without touching the library")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
