package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExtractNoToolAnywhere(t *testing.T) {
	// With an empty PATH nothing can be located.
	t.Setenv("PATH", t.TempDir())

	e := &Extractor{}
	if e.Available() {
		t.Error("Available() = true with empty PATH")
	}
	err := e.Extract(context.Background(), "book.chm", t.TempDir())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractToolOverride(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	e := &Extractor{Tool: "definitely-not-a-real-tool"}
	if e.Available() {
		t.Error("Available() = true for missing override tool")
	}
	err := e.Extract(context.Background(), "book.chm", t.TempDir())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake tool")
	}

	// A fake hh.exe that always fails makes the tool "present but broken":
	// still ErrUnavailable, per the expected-outcome policy.
	binDir := t.TempDir()
	script := filepath.Join(binDir, "hh.exe")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho decompile failed >&2\nexit 1\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", binDir)

	e := &Extractor{}
	if !e.Available() {
		t.Fatal("Available() = false with tool on PATH")
	}
	err := e.Extract(context.Background(), "book.chm", t.TempDir())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake tool")
	}

	binDir := t.TempDir()
	script := filepath.Join(binDir, "hh.exe")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", binDir)

	e := &Extractor{}
	if err := e.Extract(context.Background(), "book.chm", t.TempDir()); err != nil {
		t.Errorf("Extract: %v", err)
	}
}
