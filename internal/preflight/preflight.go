package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"debloat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckFileWritable("Ledger file", cfg.Paths.LedgerFile),
	}

	// History database (when enabled); its directory is created on open.
	if cfg.History.Enabled {
		if dir := filepath.Dir(cfg.Paths.HistoryDB); dirExists(dir) {
			results = append(results, CheckFileWritable("History database", cfg.Paths.HistoryDB))
		} else {
			results = append(results, Result{Name: "History database", Passed: true, Detail: fmt.Sprintf("%s (will be created)", cfg.Paths.HistoryDB)})
		}
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
