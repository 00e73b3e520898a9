package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	if c.Workers.MaxProcesses < 0 {
		return errors.New("workers.max_processes must be zero (auto) or positive")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LedgerFile) == "" {
		return errors.New("paths.ledger_file must be set")
	}
	if c.Paths.LedgerFile == c.Paths.LibraryDir {
		return errors.New("paths.ledger_file must not point at paths.library_dir")
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.VorbisQuality < minVorbisQuality || c.Audio.VorbisQuality > maxVorbisQuality {
		return fmt.Errorf("audio.vorbis_quality must be between %.1f and %.1f", minVorbisQuality, maxVorbisQuality)
	}
	return nil
}

func (c *Config) validateImage() error {
	if c.Image.JPEGQuality < minJPEGQuality || c.Image.JPEGQuality > maxJPEGQuality {
		return fmt.Errorf("image.jpeg_quality must be between %d and %d", minJPEGQuality, maxJPEGQuality)
	}
	if _, _, err := ParseGeometry(c.Image.BannerGeometry); err != nil {
		return fmt.Errorf("image.banner_geometry: %w", err)
	}
	if _, _, err := ParseGeometry(c.Image.DefaultGeometry); err != nil {
		return fmt.Errorf("image.default_geometry: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// ParseGeometry splits a WIDTHxHEIGHT resize cap into its dimensions.
func ParseGeometry(value string) (int, int, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(value), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", value)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", value)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", value)
	}
	return width, height, nil
}
