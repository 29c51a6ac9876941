// # internal/core/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsInvalidPattern(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, nil, []string{"[a"}, func([]string) {}); err == nil {
		t.Fatal("expected error for invalid exclude pattern")
	}
}

func waitFor(t *testing.T, changed <-chan []string, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for change of %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{"vendor"}, []string{"*.skip.json"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	dump := filepath.Join(tmpDir, "unit.json")
	if err := os.WriteFile(dump, []byte(`{"kind":"File"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, dump)

	// Excluded names and non-dump files stay silent.
	for _, name := range []string{"unit.skip.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("excluded files triggered event: %v", paths)
	case <-time.After(400 * time.Millisecond):
	}

	// New directories are watched recursively after create.
	subdir := filepath.Join(tmpDir, "nested")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(subdir, "nested.json")
	if err := os.WriteFile(nested, []byte(`{"kind":"File"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, nested)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.json")
	newPath := filepath.Join(tmpDir, "new.json")
	if err := os.WriteFile(oldPath, []byte(`{"kind":"File"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, newPath)
}

func TestWatcher_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	dump := filepath.Join(tmpDir, "unit.json")
	if err := os.WriteFile(dump, []byte(`{"kind":"File"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{dump}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dump, []byte(`{"kind":"File","line":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, dump)
}

func TestWatcher_TouchIsIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	dump := filepath.Join(tmpDir, "unit.json")
	if err := os.WriteFile(dump, []byte(`{"kind":"File"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := os.Chtimes(dump, now, now); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("metadata-only change triggered event: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
