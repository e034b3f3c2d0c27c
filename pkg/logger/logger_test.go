package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "devbracket.log")
	if err := InitWithFile(path); err != nil {
		t.Fatalf("failed to initialize file logger: %v", err)
	}

	Get().Info(context.Background(), "report built", String("report_id", "r-1"), Int("users", 3))
	if err := Sync(); err != nil {
		t.Fatalf("failed to sync logger: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "report built") || !strings.Contains(out, "report_id=r-1") {
		t.Fatalf("unexpected log file content: %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Fatalf("expected caller source in log line, got %q", out)
	}

	// Leave the global logger writing to stdout for the other tests.
	if err := Init(); err != nil {
		t.Fatalf("failed to reinitialize logger: %v", err)
	}
}

func TestLoggerInitWithEmptyFile(t *testing.T) {
	if err := InitWithFile("  "); err != nil {
		t.Fatalf("expected empty path to fall back to stdout: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "dropped", Error(os.ErrNotExist))
	l.Named("x").Debug(nil, "dropped") //nolint:staticcheck // nil ctx must not panic
}

func TestSetLevelString(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " INFO "} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q: unexpected error %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}
