// Package state persists the last-viewed page per documentation set, so
// reopening an archive lands where the reader left off. Sets are
// identified by a content hash of their contents sitemap, which survives
// the directory being moved or re-extracted.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateFileName = "last_pages.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// ViewState stores the position for a single documentation set.
type ViewState struct {
	// LastTarget is the raw navigation target, as stored in the sitemap,
	// of the page the reader last opened.
	LastTarget string `json:"last_target"`
}

// Store manages persistent viewer state.
type Store struct {
	path string
	data map[string]ViewState
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/chmview/
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]ViewState),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]ViewState)
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/chmview or ~/.local/state/chmview
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "chmview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "chmview")
}

// ComputeHash generates a content hash identifying a documentation set
// by its contents sitemap file.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// LastTarget returns the saved target for a set, or "" if none.
func (s *Store) LastTarget(hash string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.data[hash]; ok {
		return st.LastTarget
	}
	return ""
}

// SetLastTarget saves the target last opened for a set.
func (s *Store) SetLastTarget(hash, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = ViewState{LastTarget: target}
	return s.save()
}

// Clear removes saved state for a set.
func (s *Store) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
