package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"debloat/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openHistory(ctx, cmd)
			if err != nil || !ok {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Duration().Round(time.Millisecond).String(),
					yesNo(run.DryRun),
					formatCount(run.PackCount),
					formatCount(run.Conversions),
					formatCount(run.Deletions),
					formatCount(run.StartFailures),
					humanize.Bytes(uint64(max(run.ReclaimedBytes, 0))),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Duration", "Dry Run", "Packs", "Conversions", "Deletions", "Failures", "Reclaimed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "List the packs a run recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openHistory(ctx, cmd)
			if err != nil || !ok {
				return err
			}
			defer store.Close()

			runID := strings.TrimSpace(args[0])
			run, found, err := store.FindRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no run with id %q", runID)
			}
			out := cmd.OutOrStdout()
			if run.DryRun {
				fmt.Fprintf(out, "Run %s was a dry run: %d new packs planned, none recorded\n", runID, run.PackCount)
				return nil
			}
			packs, err := store.PacksForRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if len(packs) == 0 {
				fmt.Fprintf(out, "Run %s recorded no packs\n", runID)
				return nil
			}
			for _, pack := range packs {
				fmt.Fprintln(out, pack)
			}
			return nil
		},
	}
}

// openHistory returns ok=false after printing a notice when there is nothing
// to read.
func openHistory(ctx *commandContext, cmd *cobra.Command) (*history.Store, bool, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, false, fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()
	if !cfg.History.Enabled {
		if len(cfg.Warnings) > 0 {
			for _, warning := range cfg.Warnings {
				fmt.Fprintf(out, "Run history is disabled: %s\n", strings.TrimPrefix(warning, "run history disabled: "))
			}
			return nil, false, nil
		}
		fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
		return nil, false, nil
	}
	if _, err := os.Stat(cfg.Paths.HistoryDB); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil, false, nil
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, false, fmt.Errorf("open history: %w", err)
	}
	return store, true, nil
}
