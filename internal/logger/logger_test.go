package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(LogLevelWarn)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Fatalf("expected warn and error lines, got %q", out)
	}
}

func TestWithErrorKeepsLevelAndWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(LogLevelError)

	l.WithError(errors.New("boom")).Warn("suppressed")
	l.WithError(errors.New("boom")).Error("Error")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("warn should be filtered at error level: %q", out)
	}
	if !strings.Contains(out, "Error: boom") {
		t.Fatalf("expected error message with cause, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":        LogLevelInfo,
		"DEBUG":   LogLevelDebug,
		" warn ":  LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q)=%q want %q", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
