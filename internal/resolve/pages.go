package resolve

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Well-known files directly under the base directory. Sphinx htmlhelp
// output ships both.
const (
	startPageName  = "index.html"
	searchPageName = "search.html"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// StartPage returns the canonical start page under the base directory,
// or ok=false when none exists and the caller should fall back to the
// first navigable leaf of the contents tree.
func (r *Resolver) StartPage() (path string, ok bool) {
	p := filepath.Join(r.base, startPageName)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// SearchPage returns the full-text search page plus the encoded query
// string for it (spaces become "+"). ok is false when the documentation
// set has no search page or the query is empty.
func (r *Resolver) SearchPage(query string) (path, rawQuery string, ok bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "", false
	}
	p := filepath.Join(r.base, searchPageName)
	if _, err := os.Stat(p); err != nil {
		return "", "", false
	}
	return p, "q=" + whitespaceRE.ReplaceAllString(query, "+"), true
}
