package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"debloat/internal/history"
	"debloat/internal/ledger"
	"debloat/internal/testsupport"
)

func TestRunWithoutHomeUsesWorkingDirectoryDefaults(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg.Paths.LibraryDir)
	if err := os.Remove(env.configPath); err != nil {
		t.Fatalf("remove config: %v", err)
	}
	t.Setenv("HOME", "")
	t.Chdir(env.baseDir)

	out, _, err := runCLI(t, env.runner, nil, "")
	if err != nil {
		t.Fatalf("debloat: %v", err)
	}
	requireContains(t, out, "New packs:       1")
	if got := testsupport.ReadText(t, filepath.Join(env.baseDir, "DEBLOATED.txt")); got != "PackA" {
		t.Fatalf("unexpected ledger %q", got)
	}
}

func TestRunCommandProcessesLibrary(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg.Paths.LibraryDir)

	out, err := env.run(t)
	if err != nil {
		t.Fatalf("debloat: %v", err)
	}
	requireContains(t, out, "complete")
	requireContains(t, out, "New packs:       1")
	requireContains(t, out, "Reclaimed:")

	if got := testsupport.ReadText(t, env.cfg.Paths.LedgerFile); got != "PackA" {
		t.Fatalf("unexpected ledger %q", got)
	}
	song := filepath.Join(env.cfg.Paths.LibraryDir, "PackA", "Song")
	if got := testsupport.ReadText(t, filepath.Join(song, "song.ssc")); got != "#MUSIC:song.ogg;\n#BACKGROUND:bg.jpg;\n" {
		t.Fatalf("unexpected chart %q", got)
	}
	if testsupport.Exists(filepath.Join(song, "notes.txt")) {
		t.Fatal("expected notes.txt removed")
	}

	store, err := history.Open(env.cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 0)
	_ = store.Close()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].PackCount != 1 || runs[0].DryRun {
		t.Fatalf("unexpected history %#v", runs)
	}

	out, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runs[0].RunID)

	out, err = env.run(t, "history", "show", runs[0].RunID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "PackA")
}

func TestRunCommandSecondPassDoesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg.Paths.LibraryDir)

	if _, err := env.run(t, "run"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := len(env.runner.Calls())

	out, err := env.run(t, "run")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "New packs:       0")
	if len(env.runner.Calls()) != first {
		t.Fatalf("expected no new tool launches, got %d", len(env.runner.Calls())-first)
	}
}

func TestRunCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg.Paths.LibraryDir)

	out, err := env.run(t, "run", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "Dry run")
	requireContains(t, out, "PackA/banner.png")
	requireContains(t, out, "PackA/info/banner.png")
	requireContains(t, out, "Would reclaim:")

	if len(env.runner.Calls()) != 0 {
		t.Fatalf("expected no tool launches, got %v", env.runner.Calls())
	}
	if testsupport.Exists(env.cfg.Paths.LedgerFile) {
		t.Fatal("expected ledger untouched by dry run")
	}
	if !testsupport.Exists(filepath.Join(env.cfg.Paths.LibraryDir, "PackA", "banner.png")) {
		t.Fatal("expected banner left in place")
	}

	store, err := history.Open(env.cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 0)
	_ = store.Close()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || !runs[0].DryRun {
		t.Fatalf("unexpected history %#v", runs)
	}
	out, err = env.run(t, "history", "show", runs[0].RunID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "was a dry run: 1 new packs planned, none recorded")
	if strings.Contains(out, "\nPackA\n") || strings.HasPrefix(out, "PackA") {
		t.Fatalf("expected no pack listing for a dry run, got %q", out)
	}

	if _, err := env.run(t, "history", "show", "no-such-run"); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestRootDryRunFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	seedLibrary(t, env.cfg.Paths.LibraryDir)

	out, err := env.run(t, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "Dry run")
	if testsupport.Exists(env.cfg.Paths.LedgerFile) {
		t.Fatal("expected ledger untouched by dry run")
	}
}

func TestRunCommandFailsWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := ledger.Acquire(env.cfg.LockFile())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	if _, err := env.run(t, "run"); !errors.Is(err, ledger.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunCommandMissingLibrary(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.LibraryDir); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "run"); err == nil {
		t.Fatal("expected error for missing library")
	}
	if testsupport.Exists(env.cfg.Paths.LedgerFile) {
		t.Fatal("expected no ledger written")
	}
}

func TestRunCommandWithoutHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	seedLibrary(t, env.cfg.Paths.LibraryDir)

	if _, err := env.run(t); err != nil {
		t.Fatalf("debloat: %v", err)
	}
	if testsupport.Exists(env.cfg.Paths.HistoryDB) {
		t.Fatal("expected no history database")
	}
	out, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "disabled")
}
