package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseLevel tests level name parsing.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "trace", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("expected ErrInvalidLevel, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestSetup tests the diagnostics lifecycle.
func TestSetup(t *testing.T) {
	t.Parallel()

	t.Run("writes to console and rotated file", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "logs", "onionwatch.log")

		diag, err := Setup(Options{
			Level:      slog.LevelInfo,
			Console:    &console,
			File:       logFile,
			MaxSizeMB:  10,
			MaxBackups: 5,
		})
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		diag.Logger.Info("target processed", "url", "siteA.onion", "sender_secret", "app-password")
		diag.Logger.Debug("hidden at info level")

		if err := diag.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := diag.Close(); err != nil {
			t.Errorf("second Close should be a no-op, got %v", err)
		}

		data, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}

		for name, out := range map[string]string{"console": console.String(), "file": string(data)} {
			if !strings.Contains(out, "siteA.onion") {
				t.Errorf("%s: expected url in output: %s", name, out)
			}
			if strings.Contains(out, "app-password") {
				t.Errorf("%s: expected secret to be masked: %s", name, out)
			}
			if strings.Contains(out, "hidden at info level") {
				t.Errorf("%s: expected debug record to be filtered: %s", name, out)
			}
		}
	})

	t.Run("SetLevel changes filtering at runtime", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		diag, err := Setup(Options{Level: slog.LevelWarn, Console: &console})
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		defer diag.Close()

		diag.Logger.Info("before")
		diag.SetLevel(slog.LevelDebug)
		diag.Logger.Debug("after")

		out := console.String()
		if strings.Contains(out, "before") || !strings.Contains(out, "after") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("JSON writes one object per record", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		diag, err := Setup(Options{Level: slog.LevelInfo, Console: &console, JSON: true})
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		defer diag.Close()

		diag.Logger.Info("target processed", "url", "siteA.onion", "sender_secret", "app-password")

		var rec map[string]any
		if err := json.Unmarshal(console.Bytes(), &rec); err != nil {
			t.Fatalf("output is not json: %v: %s", err, console.String())
		}
		if rec["msg"] != "target processed" || rec["url"] != "siteA.onion" {
			t.Errorf("unexpected record: %v", rec)
		}
		if rec["sender_secret"] == "app-password" {
			t.Error("expected secret to be masked in json output")
		}
	})
}
