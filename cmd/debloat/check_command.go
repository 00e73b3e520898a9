package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"debloat/internal/deps"
	"debloat/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directory permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cfg)
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Detail"},
				dependencyRows(statuses, colorize),
				nil,
			))

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				rows = append(rows, []string{result.Name, statusCell(kind, colorize), result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			missing := deps.Missing(statuses)
			failed := preflight.Failed(results)
			if len(missing)+len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(missing)+len(failed), len(statuses)+len(results))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func dependencyRows(statuses []deps.Status, colorize bool) [][]string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		kind := statusOK
		detail := status.Path
		switch {
		case status.Available:
		case status.Optional:
			kind = statusWarn
			detail = status.Detail
		default:
			kind = statusError
			detail = status.Detail
		}
		if detail == "" {
			detail = status.Description
		}
		rows = append(rows, []string{status.Name, status.Command, statusCell(kind, colorize), detail})
	}
	return rows
}
