package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "a.hhc")
	file2 := filepath.Join(tmpDir, "b.hhc")
	file3 := filepath.Join(tmpDir, "a_copy.hhc")

	os.WriteFile(file1, []byte("<OBJECT type=\"text/sitemap\">"), 0644)
	os.WriteFile(file2, []byte("different contents"), 0644)
	os.WriteFile(file3, []byte("<OBJECT type=\"text/sitemap\">"), 0644)

	hash1, err := ComputeHash(file1)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash2, err := ComputeHash(file2)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash3, err := ComputeHash(file3)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	// Same content = same hash, regardless of filename
	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}
	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashMissingFile(t *testing.T) {
	if _, err := ComputeHash(filepath.Join(t.TempDir(), "nope.hhc")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStore(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if got := store.LastTarget("unknown"); got != "" {
		t.Errorf("LastTarget for unknown set = %q, want empty", got)
	}

	if err := store.SetLastTarget("abc123", "guide/intro.html#setup"); err != nil {
		t.Fatalf("SetLastTarget failed: %v", err)
	}
	if got := store.LastTarget("abc123"); got != "guide/intro.html#setup" {
		t.Errorf("LastTarget = %q", got)
	}

	// Survives a reload from disk
	store2, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore reload failed: %v", err)
	}
	if got := store2.LastTarget("abc123"); got != "guide/intro.html#setup" {
		t.Errorf("LastTarget after reload = %q", got)
	}

	if err := store2.Clear("abc123"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := store2.LastTarget("abc123"); got != "" {
		t.Errorf("LastTarget after Clear = %q, want empty", got)
	}
}
