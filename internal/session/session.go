// Package session owns one loaded documentation set: the base directory,
// the contents tree, the flattened keyword index and the resolver bound
// to that base. Sessions are constructed whole and replaced whole; a
// failed load leaves the caller's previous session untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmtools/chmview/internal/extract"
	"github.com/chmtools/chmview/internal/resolve"
	"github.com/chmtools/chmview/internal/sitemap"
)

// ErrNoContents means neither a side-car sitemap nor a successful
// extraction produced a usable contents file.
var ErrNoContents = errors.New("no table of contents available")

// Session is one loaded documentation set.
type Session struct {
	BaseDir  string
	Contents *sitemap.Node
	Index    []sitemap.IndexEntry

	// ContentsPath is the sitemap file the contents tree came from; its
	// content identifies the set for persisted viewer state.
	ContentsPath string

	resolver *resolve.Resolver
	tempDir  string // non-empty when the set was decompiled into a temp dir
}

// Open loads a session from a directory that already holds extracted
// help files. The first .hhc found becomes the contents, the first .hhk
// (if any) the index.
func Open(baseDir string) (*Session, error) {
	hhc := firstWithExt(baseDir, ".hhc")
	if hhc == "" {
		return nil, fmt.Errorf("%w: no .hhc under %s", ErrNoContents, baseDir)
	}
	return openFiles(baseDir, hhc, firstWithExt(baseDir, ".hhk"))
}

// OpenArchive loads a session for a .chm archive. Side-car .hhc/.hhk
// files next to the archive win; otherwise the external decompiler is
// asked to unpack into a temporary directory, which the session owns
// until Close.
func OpenArchive(ctx context.Context, chmPath string, ex *extract.Extractor) (*Session, error) {
	folder := filepath.Dir(chmPath)
	stem := strings.TrimSuffix(filepath.Base(chmPath), filepath.Ext(chmPath))

	hhc := filepath.Join(folder, stem+".hhc")
	if fileExists(hhc) {
		hhk := filepath.Join(folder, stem+".hhk")
		if !fileExists(hhk) {
			hhk = ""
		}
		return openFiles(folder, hhc, hhk)
	}

	tmp, err := os.MkdirTemp("", "chmview-")
	if err != nil {
		return nil, err
	}
	if err := ex.Extract(ctx, chmPath, tmp); err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("%w: %w", ErrNoContents, err)
	}

	hhc = firstWithExt(tmp, ".hhc")
	if hhc == "" {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("%w: decompiled archive has no .hhc", ErrNoContents)
	}
	s, err := openFiles(tmp, hhc, firstWithExt(tmp, ".hhk"))
	if err != nil {
		os.RemoveAll(tmp)
		return nil, err
	}
	s.tempDir = tmp
	return s, nil
}

func openFiles(baseDir, hhcPath, hhkPath string) (*Session, error) {
	contents, err := sitemap.ParseFile(hhcPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContents, err)
	}

	var index []sitemap.IndexEntry
	if hhkPath != "" {
		// A broken index is not fatal; the viewer just shows none.
		if idxRoot, err := sitemap.ParseFile(hhkPath); err == nil {
			index = sitemap.BuildIndex(idxRoot)
		}
	}

	return &Session{
		BaseDir:      baseDir,
		Contents:     contents,
		Index:        index,
		ContentsPath: hhcPath,
		resolver:     resolve.New(baseDir),
	}, nil
}

// Close releases the temporary extraction directory, if the session owns
// one. Safe on sessions loaded from permanent directories.
func (s *Session) Close() error {
	if s.tempDir == "" {
		return nil
	}
	dir := s.tempDir
	s.tempDir = ""
	return os.RemoveAll(dir)
}

// Outline returns the contents tree flattened for display.
func (s *Session) Outline() []sitemap.Item {
	return s.Contents.Outline()
}

// Resolve maps a stored navigation target against the session base.
func (s *Session) Resolve(target string) (*resolve.Location, error) {
	return s.resolver.Resolve(target)
}

// StartPage picks the page to show on load: the index.html convention
// first, then the first navigable leaf of the contents tree. ok is false
// when the set offers nothing to open.
func (s *Session) StartPage() (*resolve.Location, bool) {
	if p, ok := s.resolver.StartPage(); ok {
		return &resolve.Location{Path: p}, true
	}
	if target := s.Contents.FirstTarget(); target != "" {
		if loc, err := s.resolver.Resolve(target); err == nil && loc != nil {
			return loc, true
		}
	}
	return nil, false
}

// SearchPage exposes the resolver's search.html convention.
func (s *Session) SearchPage(query string) (path, rawQuery string, ok bool) {
	return s.resolver.SearchPage(query)
}

// firstWithExt returns the first file in dir whose name ends with ext,
// compared case-insensitively, or "".
func firstWithExt(dir, ext string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
