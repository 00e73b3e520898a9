package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"debloat/internal/config"
	"debloat/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "debloat.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "banner").Info("moving banners",
		logging.String(logging.FieldPack, "My Pack"),
		logging.Int("count", 2),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO banner: moving banners", `pack="My Pack"`, "count=2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Fatalf("expected no color codes for file output, got %q", line)
	}
}

func TestConsoleLoggerForcedColor(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "color.log")
	color := true
	logger, err := logging.New(logging.Options{OutputPaths: []string{logPath}, Color: &color})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("careful")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "\033[1;93mWARN\033[0m") {
		t.Fatalf("expected colorized warn label, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithPhase(logging.WithRunID(context.Background(), "run-1"), "convert")
	logging.WithContext(ctx, logger).Info("converting audio")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "converting audio" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry[logging.FieldRunID] != "run-1" || entry[logging.FieldPhase] != "convert" {
		t.Fatalf("expected context fields, got %#v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, err := logging.New(logging.Options{Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	content, _ := os.ReadFile(logPath)
	if strings.Contains(string(content), "hidden") {
		t.Fatalf("expected debug line suppressed, got %q", content)
	}
}
