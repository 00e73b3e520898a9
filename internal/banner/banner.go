package banner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"debloat/internal/fileutil"
	"debloat/internal/logging"
)

// InfoDir is the pack subfolder banners are moved into.
const InfoDir = "info"

const bannerPattern = "*.png"

// Move is one planned banner relocation.
type Move struct {
	Source string
	Target string
}

// Result reports what Relocate did for one pack.
type Result struct {
	Moved  []Move
	Failed []Move
	// Skipped is true when the pack path is not a directory.
	Skipped bool
}

// Plan lists the moves Relocate would make for packDir without touching disk.
func Plan(packDir string) ([]Move, error) {
	info, err := os.Stat(packDir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	entries, err := os.ReadDir(packDir)
	if err != nil {
		return nil, fmt.Errorf("read pack %s: %w", packDir, err)
	}
	infoDir := filepath.Join(packDir, InfoDir)
	var moves []Move
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(bannerPattern, entry.Name()); !ok {
			continue
		}
		moves = append(moves, Move{
			Source: filepath.Join(packDir, entry.Name()),
			Target: filepath.Join(infoDir, entry.Name()),
		})
	}
	return moves, nil
}

// Relocate moves every top-level PNG of packDir into packDir/info, creating
// the folder when missing. Individual move failures are logged and the file
// stays where it was; Relocate never fails a run.
func Relocate(ctx context.Context, packDir string, logger *slog.Logger) Result {
	logger = logging.WithContext(ctx, logger).With(logging.String(logging.FieldPack, filepath.Base(packDir)))
	logger.Info("moving banners", logging.String(logging.FieldPath, packDir))

	info, err := os.Stat(packDir)
	if err != nil || !info.IsDir() {
		return Result{Skipped: true}
	}

	infoDir := filepath.Join(packDir, InfoDir)
	if err := os.MkdirAll(infoDir, 0o755); err != nil {
		logging.WarnWithContext(logger, "failed to create info directory", "banner_info_dir_failed",
			logging.String(logging.FieldPath, infoDir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "banners stay at the pack top level"),
		)
		return Result{}
	}

	moves, err := Plan(packDir)
	if err != nil {
		logging.WarnWithContext(logger, "failed to list pack", "banner_scan_failed", logging.Error(err))
		return Result{}
	}

	var result Result
	for _, move := range moves {
		if err := fileutil.Move(move.Source, move.Target); err != nil {
			result.Failed = append(result.Failed, move)
			logging.WarnWithContext(logger, "banner move skipped", "banner_move_failed",
				logging.String(logging.FieldPath, move.Source),
				logging.String("target", move.Target),
				logging.Error(err),
				logging.String(logging.FieldImpact, "banner stays at the pack top level"),
			)
			continue
		}
		result.Moved = append(result.Moved, move)
	}
	return result
}
