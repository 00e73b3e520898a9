package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the library, ledger and state file locations.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LedgerFile string `toml:"ledger_file"`
	HistoryDB  string `toml:"history_db"`
	LogDir     string `toml:"log_dir"`
}

// Tools names the external executables launched by the dispatchers.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	Convert string `toml:"convert"`
	Sed     string `toml:"sed"`
	Rm      string `toml:"rm"`
}

// Audio contains the Vorbis transcode settings.
type Audio struct {
	// VorbisQuality is the libvorbis -q:a value on its 0-10 scale. Default: 7.0
	VorbisQuality float64 `toml:"vorbis_quality"`
}

// Image contains the JPEG transcode settings.
type Image struct {
	JPEGQuality int `toml:"jpeg_quality"`
	// BannerGeometry caps images whose stem is "banner". Default: 640x360
	BannerGeometry string `toml:"banner_geometry"`
	// DefaultGeometry caps every other image. Default: 1280x720
	DefaultGeometry string `toml:"default_geometry"`
}

// Workers bounds the number of external processes running at once.
type Workers struct {
	// MaxProcesses of 0 resolves to runtime.NumCPU().
	MaxProcesses int `toml:"max_processes"`
}

// History controls the SQLite run journal.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for debloat.
//
// Configuration sections by subsystem:
//   - Paths: library root, ledger file, history database, log directory
//   - Tools: external converter and delete executables
//   - Audio: Vorbis quality for mp3 transcodes
//   - Image: JPEG quality and shrink-only resize caps
//   - Workers: process fan-out limit per phase
//   - History: run journal toggle
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Audio   Audio   `toml:"audio"`
	Image   Image   `toml:"image"`
	Workers Workers `toml:"workers"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`

	// Warnings lists optional features turned off while loading, for the
	// caller to log once a logger exists.
	Warnings []string `toml:"-"`
}

// ErrHomeUnavailable reports a "~" path when the home directory cannot be
// resolved.
var ErrHomeUnavailable = errors.New("home directory unavailable")

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/debloat/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	// Without a home directory only the project file can exist.
	defaultPath, err := DefaultConfigPath()
	if err != nil && !errors.Is(err, ErrHomeUnavailable) {
		return "", false, err
	}

	projectPath, err := filepath.Abs("debloat.toml")
	if err != nil {
		return "", false, err
	}

	if defaultPath != "" {
		if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
			return defaultPath, true, nil
		}
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	if defaultPath == "" {
		return projectPath, false, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories holding state files. The library
// directory is never created: a missing library is reported by the run. A
// history directory that cannot be created turns history off with a warning.
func (c *Config) EnsureDirectories() error {
	if c.History.Enabled && c.Paths.HistoryDB != "" {
		dir := filepath.Dir(c.Paths.HistoryDB)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.disableHistory(fmt.Sprintf("create history directory %q: %v", dir, err))
		}
	}
	dirs := []string{filepath.Dir(c.Paths.LedgerFile)}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) disableHistory(reason string) {
	c.History.Enabled = false
	c.Warnings = append(c.Warnings, "run history disabled: "+reason)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrHomeUnavailable, err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LockFile returns the advisory lock path guarding the ledger.
func (c *Config) LockFile() string {
	return c.Paths.LedgerFile + ".lock"
}
