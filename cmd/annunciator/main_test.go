package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tahcohcat/annunciator/config"
	"github.com/tahcohcat/annunciator/internal/announcement"
)

func TestRunMissingInput(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "absent.json")})
	if !errors.Is(err, announcement.ErrInputNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestRunRequiresInputArgument(t *testing.T) {
	if err := run(nil); !errors.Is(err, config.ErrMissingInput) {
		t.Fatalf("err=%v", err)
	}
}

func TestRunUsage(t *testing.T) {
	if err := run([]string{"--usage"}); err == nil {
		t.Fatal("--usage without a ledger should fail")
	}

	ledger := filepath.Join(t.TempDir(), "usage.db")
	if err := run([]string{"--usage", "--ledger", ledger}); err != nil {
		t.Fatalf("usage on empty ledger: %v", err)
	}
}

func TestRunRejectsUnknownLogLevel(t *testing.T) {
	if err := run([]string{"--log-level", "chatty", "input.json"}); err == nil {
		t.Fatal("expected log level error")
	}
}

func TestNeedsMerging(t *testing.T) {
	plain := []announcement.Announcement{{Name: "a"}}
	if needsMerging(plain) {
		t.Fatal("no prepend, no merging")
	}
	withPrepend := append(plain, announcement.Announcement{Name: "b", Prepend: &announcement.Prepend{File: "x.mp3"}})
	if !needsMerging(withPrepend) {
		t.Fatal("prepend requires merging")
	}
}
