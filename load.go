package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmtools/chmview/internal/config"
	"github.com/chmtools/chmview/internal/extract"
	"github.com/chmtools/chmview/internal/session"
	"github.com/chmtools/chmview/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// viewerSetup is everything both front-ends need before showing a window:
// the loaded session, persisted state and the set's identity hash.
type viewerSetup struct {
	cfg     *config.Config
	session *session.Session
	store   *state.Store
	setHash string
}

// setup loads config, opens the documentation set at path and wires the
// state store. path may be a .chm archive, an extracted directory, or a
// .hhc file inside one.
func setup(configPath, path string) (*viewerSetup, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ex := &extract.Extractor{Tool: cfg.Extractor}
	s, err := loadSession(context.Background(), path, ex)
	if err != nil {
		return nil, err
	}

	v := &viewerSetup{cfg: cfg, session: s}
	if store, err := state.NewStore(); err == nil {
		v.store = store
		if hash, err := state.ComputeHash(s.ContentsPath); err == nil {
			v.setHash = hash
		}
	}
	return v, nil
}

func loadSession(ctx context.Context, path string, ex *extract.Extractor) (*session.Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return session.Open(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".chm":
		return session.OpenArchive(ctx, path, ex)
	case ".hhc", ".hhk":
		return session.Open(filepath.Dir(path))
	default:
		return nil, fmt.Errorf("unsupported file %s: want a .chm archive, a .hhc file or an extracted directory", path)
	}
}

// rememberTarget persists the last-opened target when that is enabled.
func (v *viewerSetup) rememberTarget(target string) {
	if v.store == nil || v.setHash == "" || !v.cfg.RememberPage {
		return
	}
	v.store.SetLastTarget(v.setHash, target)
}

// savedTarget returns the persisted target for this set, or "".
func (v *viewerSetup) savedTarget() string {
	if v.store == nil || v.setHash == "" || !v.cfg.RememberPage {
		return ""
	}
	return v.store.LastTarget(v.setHash)
}
