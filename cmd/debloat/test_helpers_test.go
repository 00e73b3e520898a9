package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"debloat/internal/config"
	"debloat/internal/executor"
	"debloat/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	runner     *testsupport.SimulatedRunner
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "debloat.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		runner:     &testsupport.SimulatedRunner{},
	}
}

func runCLI(t *testing.T, runner executor.Runner, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(runner)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(t, e.runner, args, e.configPath)
	return out, err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlibrary_dir = %q\nledger_file = %q\nhistory_db = %q\n\n[workers]\nmax_processes = %d\n\n[history]\nenabled = %t\n",
		cfg.Paths.LibraryDir,
		cfg.Paths.LedgerFile,
		cfg.Paths.HistoryDB,
		cfg.Workers.MaxProcesses,
		cfg.History.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func seedLibrary(t *testing.T, library string) {
	t.Helper()
	pack := filepath.Join(library, "PackA")
	testsupport.WriteFile(t, filepath.Join(pack, "banner.png"), 10)
	testsupport.WriteFile(t, filepath.Join(pack, "Song", "song.mp3"), 2048)
	testsupport.WriteFile(t, filepath.Join(pack, "Song", "bg.png"), 512)
	testsupport.WriteFile(t, filepath.Join(pack, "Song", "notes.txt"), 10)
	testsupport.WriteText(t, filepath.Join(pack, "Song", "song.ssc"), "#MUSIC:song.mp3;\n#BACKGROUND:bg.png;\n")
}
