// Package resolve maps navigation targets from sitemap entries onto the
// filesystem. Every relative target is confined to the session's base
// directory: a target that escapes it fails closed, before any file is
// touched.
package resolve

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrEscapesBase means the target resolved outside the base directory.
	ErrEscapesBase = errors.New("path escapes base directory")
	// ErrNotFound means the resolved file does not exist.
	ErrNotFound = errors.New("target not found")
)

// schemeRE matches absolute URI targets, which bypass base-directory
// confinement as opaque external references.
var schemeRE = regexp.MustCompile(`^[a-zA-Z]+://`)

// Location is a resolved navigation target. External locations carry only
// URL; local ones carry an absolute Path and an optional Fragment.
type Location struct {
	Path     string
	Fragment string
	External bool
	URL      string
}

// Resolver resolves raw targets against a fixed base directory.
type Resolver struct {
	base string
}

// New returns a Resolver confined to base. The base is cleaned once and
// fixed for the resolver's lifetime.
func New(base string) *Resolver {
	return &Resolver{base: filepath.Clean(base)}
}

// Base returns the cleaned base directory.
func (r *Resolver) Base() string { return r.base }

// Resolve maps a raw target to a Location. An empty target (after entity
// decoding and trimming) resolves to (nil, nil): nothing to navigate to.
// Escapes and missing files return ErrEscapesBase / ErrNotFound wrapped
// with the offending path, distinguishable via errors.Is.
func (r *Resolver) Resolve(target string) (*Location, error) {
	target = strings.TrimSpace(html.UnescapeString(target))
	if target == "" {
		return nil, nil
	}

	if schemeRE.MatchString(target) {
		return &Location{External: true, URL: target}, nil
	}

	rel, fragment, _ := strings.Cut(target, "#")
	rel = strings.ReplaceAll(rel, `\`, "/")
	rel = strings.TrimLeft(rel, "/")

	abs := filepath.Join(r.base, filepath.FromSlash(rel))

	// Containment first: a crafted ".." target must fail before any
	// filesystem access happens.
	if !r.contains(abs) {
		return nil, fmt.Errorf("%w: %s", ErrEscapesBase, abs)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, abs)
	}

	return &Location{Path: abs, Fragment: fragment}, nil
}

// contains reports whether abs (already cleaned by filepath.Join) is the
// base directory itself or lies below it. Plain prefix matching is not
// enough: "/docs-old" must not satisfy a "/docs" base.
func (r *Resolver) contains(abs string) bool {
	if abs == r.base {
		return true
	}
	return strings.HasPrefix(abs, r.base+string(filepath.Separator))
}
