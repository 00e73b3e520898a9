package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeImage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerFile) == "" {
		c.Paths.LedgerFile = defaultLedgerFile
	}
	if c.Paths.LedgerFile, err = expandPath(strings.TrimSpace(c.Paths.LedgerFile)); err != nil {
		return fmt.Errorf("paths.ledger_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	historyDB, err := expandPath(strings.TrimSpace(c.Paths.HistoryDB))
	switch {
	case errors.Is(err, ErrHomeUnavailable) && c.History.Enabled:
		c.disableHistory(fmt.Sprintf("paths.history_db %q: %v", c.Paths.HistoryDB, err))
	case errors.Is(err, ErrHomeUnavailable):
	case err != nil:
		return fmt.Errorf("paths.history_db: %w", err)
	default:
		c.Paths.HistoryDB = historyDB
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = orDefault(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.Convert = orDefault(c.Tools.Convert, defaultConvert)
	c.Tools.Sed = orDefault(c.Tools.Sed, defaultSed)
	c.Tools.Rm = orDefault(c.Tools.Rm, defaultRm)
}

func (c *Config) normalizeImage() {
	c.Image.BannerGeometry = strings.ToLower(orDefault(c.Image.BannerGeometry, defaultBannerGeometry))
	c.Image.DefaultGeometry = strings.ToLower(orDefault(c.Image.DefaultGeometry, defaultImageGeometry))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(logLevelEnvironmentKey); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
