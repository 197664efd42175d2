package store

import (
	"path/filepath"
	"testing"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a successful run with minimal required fields.
func createTestRun(id, kind string) Run {
	return Run{
		ID:     id,
		Kind:   kind,
		Input:  "/tmp/" + id + ".rwl",
		Status: StatusOK,
	}
}
