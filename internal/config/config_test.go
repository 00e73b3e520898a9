package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"debloat/internal/config"
)

func TestLoadDefaultConfigResolvesAgainstWorkingDirectory(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLibrary, _ := filepath.Abs("Songs")
	if cfg.Paths.LibraryDir != wantLibrary {
		t.Fatalf("unexpected library dir: got %q want %q", cfg.Paths.LibraryDir, wantLibrary)
	}
	wantLedger, _ := filepath.Abs("DEBLOATED.txt")
	if cfg.Paths.LedgerFile != wantLedger {
		t.Fatalf("unexpected ledger file: got %q want %q", cfg.Paths.LedgerFile, wantLedger)
	}
	if cfg.Paths.HistoryDB != filepath.Join(tempHome, ".local", "share", "debloat", "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Paths.HistoryDB)
	}
	if cfg.Audio.VorbisQuality != 7.0 {
		t.Fatalf("unexpected vorbis quality: %v", cfg.Audio.VorbisQuality)
	}
	if cfg.Image.JPEGQuality != 75 {
		t.Fatalf("unexpected jpeg quality: %d", cfg.Image.JPEGQuality)
	}
	if cfg.Image.BannerGeometry != "640x360" || cfg.Image.DefaultGeometry != "1280x720" {
		t.Fatalf("unexpected geometries: %q %q", cfg.Image.BannerGeometry, cfg.Image.DefaultGeometry)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.Convert != "convert" || cfg.Tools.Sed != "sed" || cfg.Tools.Rm != "rm" {
		t.Fatalf("unexpected tools: %#v", cfg.Tools)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.LockFile() != wantLedger+".lock" {
		t.Fatalf("unexpected lock file: %q", cfg.LockFile())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.Paths.HistoryDB)); err != nil {
		t.Fatalf("expected history directory to exist: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LibraryDir); !os.IsNotExist(err) {
		t.Fatalf("expected library dir to remain absent, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "debloat.toml")

	type payload struct {
		Paths struct {
			LibraryDir string `toml:"library_dir"`
		} `toml:"paths"`
		Audio struct {
			VorbisQuality float64 `toml:"vorbis_quality"`
		} `toml:"audio"`
		Workers struct {
			MaxProcesses int `toml:"max_processes"`
		} `toml:"workers"`
		Tools struct {
			FFmpeg string `toml:"ffmpeg"`
		} `toml:"tools"`
	}
	custom := payload{}
	custom.Paths.LibraryDir = filepath.Join(tempDir, "library")
	custom.Audio.VorbisQuality = 5.5
	custom.Workers.MaxProcesses = 3
	custom.Tools.FFmpeg = "/opt/ffmpeg/bin/ffmpeg"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.LibraryDir != custom.Paths.LibraryDir {
		t.Fatalf("expected library dir override, got %q", cfg.Paths.LibraryDir)
	}
	if cfg.Audio.VorbisQuality != 5.5 {
		t.Fatalf("expected vorbis quality 5.5, got %v", cfg.Audio.VorbisQuality)
	}
	if cfg.Workers.MaxProcesses != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.Workers.MaxProcesses)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg override, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.Convert != "convert" {
		t.Fatalf("expected convert default to survive partial config, got %q", cfg.Tools.Convert)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"vorbis quality", "[audio]\nvorbis_quality = 11.0\n", "audio.vorbis_quality"},
		{"jpeg quality", "[image]\njpeg_quality = 0\n", "image.jpeg_quality"},
		{"banner geometry", "[image]\nbanner_geometry = \"640\"\n", "image.banner_geometry"},
		{"default geometry", "[image]\ndefault_geometry = \"axb\"\n", "image.default_geometry"},
		{"workers", "[workers]\nmax_processes = -1\n", "workers.max_processes"},
		{"log level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "debloat.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error to mention %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLogLevelEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("DEBLOAT_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestParseGeometry(t *testing.T) {
	w, h, err := config.ParseGeometry("640x360")
	if err != nil {
		t.Fatalf("ParseGeometry: %v", err)
	}
	if w != 640 || h != 360 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
	for _, bad := range []string{"", "640", "x360", "640x", "0x10", "-1x5"} {
		if _, _, err := config.ParseGeometry(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Image.JPEGQuality != 75 {
		t.Fatalf("unexpected sample jpeg quality: %d", cfg.Image.JPEGQuality)
	}
}

func TestLoadWithoutHomeUsesWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", "")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no config file")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if resolved != filepath.Join(wd, "debloat.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.LibraryDir != filepath.Join(wd, "Songs") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.Paths.LedgerFile != filepath.Join(wd, "DEBLOATED.txt") {
		t.Fatalf("unexpected ledger file: %q", cfg.Paths.LedgerFile)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled without a home directory")
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "paths.history_db") {
		t.Fatalf("expected one history warning, got %q", cfg.Warnings)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
}

func TestLoadWithoutHomeReadsProjectConfig(t *testing.T) {
	t.Setenv("HOME", "")
	workDir := t.TempDir()
	t.Chdir(workDir)
	if err := os.WriteFile("debloat.toml", []byte("[history]\nenabled = false\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project config to be found")
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("expected no warnings when history is off, got %q", cfg.Warnings)
	}
}

func TestEnsureDirectoriesDisablesHistoryOnFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg := config.Default()
	cfg.Paths.LedgerFile = filepath.Join(base, "DEBLOATED.txt")
	cfg.Paths.HistoryDB = filepath.Join(blocker, "state", "history.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled")
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "create history directory") {
		t.Fatalf("unexpected warnings: %q", cfg.Warnings)
	}
}
