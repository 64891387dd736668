package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("ErrorLog", func(t *testing.T) {
		stdout, errs := &bytes.Buffer{}, &bytes.Buffer{}
		l := newLogger(stdout, errs)

		l.Warn("slow statement")
		l.Error("prepare failed")

		if !strings.Contains(stdout.String(), "slow statement") || !strings.Contains(stdout.String(), "prepare failed") {
			t.Errorf("main output missing entries: %s", stdout.String())
		}
		if strings.Contains(errs.String(), "slow statement") {
			t.Errorf("error log should only carry errors: %s", errs.String())
		}
		if !strings.Contains(errs.String(), "prepare failed") {
			t.Errorf("error log missing the error entry: %s", errs.String())
		}
	})

	t.Run("NoErrorLog", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		l := newLogger(stdout, nil)
		l.Info("opened")
		l.Error("prepare failed")
		if strings.Contains(stdout.String(), "opened") {
			t.Errorf("info should be filtered without -v: %s", stdout.String())
		}
		if !strings.Contains(stdout.String(), "prepare failed") {
			t.Errorf("main output missing the error entry: %s", stdout.String())
		}
	})
}

func TestRun(t *testing.T) {
	target := filepath.Join(t.TempDir(), "backup.db")
	*rows, *out = 50, target
	t.Cleanup(func() { *rows, *out = 1000000, "backup.db" })

	errs := &bytes.Buffer{}
	if err := run(newLogger(&bytes.Buffer{}, errs)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if errs.Len() != 0 {
		t.Errorf("expected no error entries, got: %s", errs.String())
	}
	if info, err := os.Stat(target); err != nil || info.Size() == 0 {
		t.Errorf("expected a snapshot at %s: %v", target, err)
	}
}
