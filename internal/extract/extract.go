// Package extract shells out to an external CHM decompiler. Reading the
// binary container is not this program's job; when no side-car sitemap
// exists next to an archive, one of the known tools is asked to unpack it
// into a directory the viewer can work from.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrUnavailable means no decompiler tool could be located or the tool
// exited non-zero. This is an expected outcome: the caller falls back to
// its "no table of contents" handling.
var ErrUnavailable = errors.New("chm decompiler unavailable")

// candidates are probed in order; the first one on PATH wins.
var candidates = []struct {
	name string
	args func(archive, outDir string) []string
}{
	{"hh.exe", func(archive, outDir string) []string {
		return []string{"-decompile", outDir, archive}
	}},
	{"extract_chmLib", func(archive, outDir string) []string {
		return []string{archive, outDir}
	}},
	{"7z", func(archive, outDir string) []string {
		return []string{"x", "-y", "-o" + outDir, archive}
	}},
}

// Extractor runs an external decompiler as a blocking subprocess.
type Extractor struct {
	// Tool overrides auto-detection when non-empty; it is run with
	// hh.exe-style arguments.
	Tool string
}

// Available reports whether a decompiler can be located at all, without
// running anything.
func (e *Extractor) Available() bool {
	if e.Tool != "" {
		_, err := exec.LookPath(e.Tool)
		return err == nil
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c.name); err == nil {
			return true
		}
	}
	return false
}

// Extract unpacks archive into outDir. The call blocks until the tool
// exits; there is no streaming output. Any failure to locate or run a
// tool comes back as ErrUnavailable with the underlying cause attached.
func (e *Extractor) Extract(ctx context.Context, archive, outDir string) error {
	name, args, err := e.command(archive, outDir)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%w: %s: %s", ErrUnavailable, name, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	return nil
}

func (e *Extractor) command(archive, outDir string) (string, []string, error) {
	if e.Tool != "" {
		path, err := exec.LookPath(e.Tool)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return path, []string{"-decompile", outDir, archive}, nil
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return path, c.args(archive, outDir), nil
		}
	}
	return "", nil, fmt.Errorf("%w: no tool found on PATH", ErrUnavailable)
}
