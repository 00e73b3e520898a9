package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"debloat/internal/dispatch"
	"debloat/internal/pipeline"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func statusCell(kind statusKind, colorize bool) string {
	label := statusKindLabel(kind)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + label + ansiReset
		}
	}
	return label
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func summaryLines(report pipeline.Report) []string {
	counts := report.CountByKind()
	title := fmt.Sprintf("Run %s complete", report.RunID)
	if report.DryRun {
		title = fmt.Sprintf("Dry run %s: nothing was changed", report.RunID)
	}
	reclaimed := "Reclaimed"
	if report.DryRun {
		reclaimed = "Would reclaim"
	}
	lines := []string{
		title,
		fmt.Sprintf("  New packs:       %d", len(report.NewPacks)),
		fmt.Sprintf("  Banners moved:   %d", len(report.BannerMoves)),
		fmt.Sprintf("  Audio:           %d", counts[dispatch.KindAudio]),
		fmt.Sprintf("  Images:          %d", counts[dispatch.KindImage]),
		fmt.Sprintf("  Charts:          %d", counts[dispatch.KindSSC]),
		fmt.Sprintf("  Deletions:       %d", counts[dispatch.KindRemove]),
		fmt.Sprintf("  %-16s %s", reclaimed+":", humanize.Bytes(uint64(max(report.ReclaimedBytes, 0)))),
	}
	if failures := report.StartFailures(); failures > 0 {
		lines = append(lines, fmt.Sprintf("  Start failures:  %d", failures))
	}
	lines = append(lines, fmt.Sprintf("  Elapsed:         %s", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)))
	return lines
}

// planTable lists every planned action of a dry run, relative to the library.
func planTable(report pipeline.Report, libraryDir string) string {
	var rows [][]string
	for _, move := range report.BannerMoves {
		rows = append(rows, []string{"move", move.Source, move.Target})
	}
	for _, task := range report.Conversions {
		rows = append(rows, []string{string(task.Kind), task.Source, task.Target})
	}
	for _, task := range report.Deletions {
		rows = append(rows, []string{string(task.Kind), task.Source, ""})
	}
	if len(rows) == 0 {
		return ""
	}
	for _, row := range rows {
		row[1] = relativeTo(libraryDir, row[1])
		row[2] = relativeTo(libraryDir, row[2])
	}
	return renderTable([]string{"Action", "Source", "Target"}, rows, nil)
}

func relativeTo(base, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
