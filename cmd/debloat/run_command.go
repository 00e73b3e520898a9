package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"debloat/internal/deps"
	"debloat/internal/dispatch"
	"debloat/internal/history"
	"debloat/internal/ledger"
	"debloat/internal/logging"
	"debloat/internal/pipeline"
	"debloat/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every pack not yet recorded in the ledger",
		Long: `Process every pack not yet recorded in the ledger.

Banners are moved into each pack's info folder, mp3 audio is converted to
Ogg Vorbis, images are recompressed to JPEG, .ssc charts are rewritten to the
new names, and superfluous files are deleted. The ledger is rewritten only
when the pass completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryPass(cmd, ctx, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the run without touching the library")
	return cmd
}

func runLibraryPass(cmd *cobra.Command, ctx *commandContext, dryRun bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if missing := deps.Missing(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		for _, status := range missing {
			logging.WarnWithContext(logger, "external tool unavailable", "tool_missing",
				logging.String("tool", status.Name),
				logging.String("command", status.Command),
				logging.String(logging.FieldImpact, "files handled by this tool are skipped"),
			)
		}
	}

	var lock *ledger.Lock
	if !dryRun {
		lock, err = ledger.Acquire(cfg.LockFile())
		if err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()
	}

	current, err := ledger.Load(cfg.Paths.LedgerFile)
	if err != nil {
		return err
	}

	state, report, err := pipeline.Run(signalCtx, pipeline.Options{
		LibraryDir: cfg.Paths.LibraryDir,
		Settings:   dispatch.SettingsFromConfig(cfg),
		Workers:    cfg.Workers.MaxProcesses,
		Runner:     ctx.executorRunner(),
		Logger:     logger,
		DryRun:     dryRun,
	}, pipeline.State{Ledger: current})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted; ledger left unchanged", logging.String(logging.FieldRunID, report.RunID))
		}
		return err
	}

	if !dryRun {
		if err := ledger.Save(cfg.Paths.LedgerFile, state.Ledger); err != nil {
			return err
		}
	}

	if cfg.History.Enabled {
		recordHistory(signalCtx, cfg.Paths.HistoryDB, report, logger)
	}

	out := cmd.OutOrStdout()
	for _, line := range summaryLines(report) {
		fmt.Fprintln(out, line)
	}
	if dryRun {
		if plan := planTable(report, cfg.Paths.LibraryDir); plan != "" {
			fmt.Fprintln(out, plan)
		}
	}
	return nil
}

func recordHistory(ctx context.Context, path string, report pipeline.Report, logger *slog.Logger) {
	store, err := history.Open(path)
	if err == nil {
		defer store.Close()
		err = store.RecordRun(ctx, historyRun(report))
	}
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.String(logging.FieldRunID, report.RunID),
			logging.String("history_db", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from debloat history"),
		)
	}
}

func historyRun(report pipeline.Report) history.Run {
	return history.Run{
		RunID:          report.RunID,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		DryRun:         report.DryRun,
		NewPacks:       report.NewPacks,
		Conversions:    len(report.Conversions),
		Deletions:      len(report.Deletions),
		StartFailures:  report.StartFailures(),
		ReclaimedBytes: report.ReclaimedBytes,
	}
}
