package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"debloat/internal/banner"
	"debloat/internal/dispatch"
	"debloat/internal/executor"
	"debloat/internal/ledger"
	"debloat/internal/logging"
)

const (
	PhaseDiscover = "discover"
	PhaseBanners  = "banners"
	PhaseConvert  = "convert"
	PhaseCleanup  = "cleanup"
	PhaseRecord   = "record"
)

// Options configures one pass over the library.
type Options struct {
	LibraryDir string
	Settings   dispatch.Settings
	Workers    int
	Runner     executor.Runner
	Logger     *slog.Logger
	// DryRun plans every phase without touching disk or launching tools.
	DryRun bool
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// State is threaded through a run: the ledger loaded before and the ledger
// to persist after.
type State struct {
	Ledger ledger.Ledger
}

// Report summarises a run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	NewPacks []string
	Files    int

	BannerMoves    []banner.Move
	BannerFailures int

	Conversions []dispatch.Task
	Deletions   []dispatch.Task

	ConversionSummary executor.Summary
	CleanupSummary    executor.Summary

	// ReclaimedBytes is the size of every file targeted by cleanup, measured
	// before deletion.
	ReclaimedBytes int64
}

// StartFailures totals tasks whose tool could not be launched.
func (r Report) StartFailures() int {
	return r.ConversionSummary.StartFailures + r.CleanupSummary.StartFailures
}

// CountByKind tallies conversion and cleanup tasks per kind.
func (r Report) CountByKind() map[dispatch.Kind]int {
	counts := make(map[dispatch.Kind]int)
	for _, task := range r.Conversions {
		counts[task.Kind]++
	}
	for _, task := range r.Deletions {
		counts[task.Kind]++
	}
	return counts
}

// Run discovers new packs, relocates their banners, converts, cleans up and
// returns the state holding the union of recorded and new pack names. The
// only returned errors are an unreadable library root and context
// cancellation; on either the input state is returned unchanged.
func Run(ctx context.Context, opts Options, state State) (State, Report, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	runner := opts.Runner
	if runner == nil {
		runner = executor.ExecRunner{}
	}

	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: now(),
		DryRun:    opts.DryRun,
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	base := logging.NewComponentLogger(opts.Logger, "pipeline")
	finish := func(err error) (State, Report, error) {
		report.FinishedAt = now()
		return state, report, err
	}

	phaseCtx := logging.WithPhase(ctx, PhaseDiscover)
	packs, err := newPacks(opts.LibraryDir, state.Ledger)
	if err != nil {
		return finish(err)
	}
	report.NewPacks = packs
	for _, pack := range packs {
		// The ledger trims names, so such a pack is found again on every run.
		if trimmed := strings.TrimSpace(pack); trimmed != pack {
			logging.WithContext(phaseCtx, base).Debug("pack name has surrounding whitespace",
				logging.String(logging.FieldPack, pack),
				logging.String("recorded_as", trimmed),
			)
		}
	}
	logging.WithContext(phaseCtx, base).Info("discovered packs",
		logging.Int("new_packs", len(packs)),
		logging.Int("recorded_packs", state.Ledger.Len()),
		logging.Bool("dry_run", opts.DryRun),
	)

	phaseCtx = logging.WithPhase(ctx, PhaseBanners)
	if opts.DryRun {
		report.BannerMoves = planBanners(opts.LibraryDir, packs)
	} else {
		for _, pack := range packs {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			res := banner.Relocate(phaseCtx, filepath.Join(opts.LibraryDir, pack), base)
			report.BannerMoves = append(report.BannerMoves, res.Moved...)
			report.BannerFailures += len(res.Failed)
		}
	}
	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	files := collectFiles(opts.LibraryDir, packs)
	if opts.DryRun {
		files = projectFiles(files, report.BannerMoves)
	}
	report.Files = len(files)

	dispatcher := dispatch.New(opts.Settings)
	report.Conversions = dispatcher.PlanConversions(files)
	report.Deletions = dispatcher.PlanCleanup(files)
	poolOpts := executor.Options{Workers: opts.Workers, Runner: runner, Logger: base}

	phaseCtx = logging.WithPhase(ctx, PhaseConvert)
	if !opts.DryRun {
		report.ConversionSummary, err = executor.RunAll(phaseCtx, report.Conversions, poolOpts)
		if err != nil {
			return finish(err)
		}
	}
	logging.WithContext(phaseCtx, base).Info("finished converting",
		logging.Int("tasks", len(report.Conversions)),
		logging.Int("start_failures", report.ConversionSummary.StartFailures),
		logging.Duration("elapsed", report.ConversionSummary.Duration),
	)

	phaseCtx = logging.WithPhase(ctx, PhaseCleanup)
	report.ReclaimedBytes = totalSize(report.Deletions)
	if !opts.DryRun {
		report.CleanupSummary, err = executor.RunAll(phaseCtx, report.Deletions, poolOpts)
		if err != nil {
			return finish(err)
		}
	}
	logging.WithContext(phaseCtx, base).Info("finished cleanup",
		logging.Int("tasks", len(report.Deletions)),
		logging.Int("start_failures", report.CleanupSummary.StartFailures),
		logging.Int64("reclaimed_bytes", report.ReclaimedBytes),
		logging.Duration("elapsed", report.CleanupSummary.Duration),
	)

	if opts.DryRun {
		return finish(nil)
	}
	state = State{Ledger: state.Ledger.Union(packs...)}
	logging.WithContext(logging.WithPhase(ctx, PhaseRecord), base).Debug("ledger updated",
		logging.Int("recorded_packs", state.Ledger.Len()),
	)
	return finish(nil)
}

// planBanners lists the moves a real run would make, leaving out moves whose
// target already exists.
func planBanners(libraryDir string, packs []string) []banner.Move {
	var out []banner.Move
	for _, pack := range packs {
		moves, err := banner.Plan(filepath.Join(libraryDir, pack))
		if err != nil {
			continue
		}
		for _, move := range moves {
			if _, err := os.Lstat(move.Target); err == nil {
				continue
			}
			out = append(out, move)
		}
	}
	return out
}

func totalSize(tasks []dispatch.Task) int64 {
	var total int64
	for _, task := range tasks {
		info, err := os.Lstat(task.Source)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		total += info.Size()
	}
	return total
}
