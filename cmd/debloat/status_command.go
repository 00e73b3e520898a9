package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"debloat/internal/ledger"
	"debloat/internal/pipeline"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which library entries are recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			current, err := ledger.Load(cfg.Paths.LedgerFile)
			if err != nil {
				return err
			}
			statuses, err := pipeline.Survey(cfg.Paths.LibraryDir, current)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(statuses))
			recorded := 0
			for _, status := range statuses {
				if status.State == pipeline.StateRecorded {
					recorded++
					if pendingOnly {
						continue
					}
				}
				kind := "pack"
				if !status.IsDir {
					kind = "file"
				}
				rows = append(rows, []string{status.Name, kind, stateCell(status.State, colorize)})
			}

			fmt.Fprintf(out, "Library: %s\n", cfg.Paths.LibraryDir)
			fmt.Fprintf(out, "Ledger:  %s\n", cfg.Paths.LedgerFile)
			summary := fmt.Sprintf("%d recorded, %d pending", recorded, len(statuses)-recorded)
			if len(rows) == 0 {
				fmt.Fprintln(out, summary)
				return nil
			}
			fmt.Fprintln(out, tableSpec{
				headers: []string{"Entry", "Type", "State"},
				rows:    rows,
				footer:  summary,
			}.render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only list entries the next run will process")
	return cmd
}

func stateCell(state pipeline.PackState, colorize bool) string {
	label := state.Label()
	if !colorize {
		return label
	}
	if state == pipeline.StateRecorded {
		return ansiGreen + label + ansiReset
	}
	return ansiYellow + label + ansiReset
}
