package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		if !logger.Core().Enabled(mustLevel(t, level)) {
			t.Errorf("logger at %q does not enable its own level", level)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := NewConsole("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewConsole_FiltersBelowLevel(t *testing.T) {
	logger, err := NewConsole("warn")
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	if logger.Core().Enabled(mustLevel(t, "info")) {
		t.Error("info enabled on a warn logger")
	}
}

func mustLevel(t *testing.T, s string) zapcore.Level {
	t.Helper()
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		t.Fatalf("ParseLevel(%q): %v", s, err)
	}
	return lvl
}
