package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewWatcher verifies that creating a new Watcher succeeds.
func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if w.IsRunning() {
		t.Error("Newly created watcher should not be running")
	}
}

// TestWatcher_StartStop verifies that the watcher can start and stop cleanly.
func TestWatcher_StartStop(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if !w.IsRunning() {
		t.Error("Watcher should be running after Start()")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if w.IsRunning() {
		t.Error("Watcher should not be running after Stop()")
	}
}

// TestWatcher_StartAlreadyRunning verifies that starting a running
// watcher fails.
func TestWatcher_StartAlreadyRunning(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("First Start() failed: %v", err)
	}

	if err := w.Start(tmpDir); err == nil {
		t.Error("Second Start() should fail when watcher is already running")
	}
}

// TestWatcher_FileCreated verifies that creating a file emits an event.
func TestWatcher_FileCreated(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	path := filepath.Join(tmpDir, "notes.md")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case event := <-w.Events():
		if filepath.Base(event.Path) != "notes.md" {
			t.Errorf("Expected notes.md, got %s", filepath.Base(event.Path))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for create event")
	}
}

// TestWatcher_MetaDirEventsFiltered verifies that changes under .git
// are never forwarded.
func TestWatcher_MetaDirEventsFiltered(t *testing.T) {
	tmpDir := t.TempDir()
	gitDir := filepath.Join(tmpDir, ".git")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatalf("Failed to create .git dir: %v", err)
	}

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Changes inside .git must not surface. The directory itself is
	// not watched, but the path filter also guards the event side.
	if err := os.WriteFile(filepath.Join(gitDir, "index"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Should not receive event for .git path, got: %+v", event)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

// TestWatcher_IgnoreSubstringFiltered verifies user ignore patterns
// suppress events.
func TestWatcher_IgnoreSubstringFiltered(t *testing.T) {
	tmpDir := t.TempDir()

	filter := NewFilter(DefaultMetaDirs(), []string{"scratch"})
	w, err := NewWatcher(filter)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Should not receive event for ignored path, got: %+v", event)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

// TestWatcher_NewDirectoryWatched verifies that files inside a
// directory created after Start still produce events.
func TestWatcher_NewDirectoryWatched(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	subDir := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	// The mkdir itself produces an event; drain it.
	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for mkdir event")
	}

	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(subDir, "nested.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write nested file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-w.Events():
			if filepath.Base(event.Path) == "nested.txt" {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for nested file event")
		}
	}
}

// TestWatcher_DeepSubtreeWatched verifies that a multi-level tree
// created in one burst (MkdirAll) is watched all the way down: the
// inner directory gets no create event of its own, so the watcher must
// walk the new subtree rather than add just the top directory.
func TestWatcher_DeepSubtreeWatched(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	innerDir := filepath.Join(tmpDir, "outer", "inner")
	if err := os.MkdirAll(innerDir, 0755); err != nil {
		t.Fatalf("Failed to create nested directories: %v", err)
	}

	// Drain the creation event(s) and let the subtree get registered.
	drain := time.After(500 * time.Millisecond)
drained:
	for {
		select {
		case <-w.Events():
		case <-drain:
			break drained
		}
	}

	if err := os.WriteFile(filepath.Join(innerDir, "deep.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write nested file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-w.Events():
			if filepath.Base(event.Path) == "deep.txt" {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for event inside MkdirAll-created subtree")
		}
	}
}

// TestWatcher_StopClosesChannels verifies that Stop() closes the
// event channels.
func TestWatcher_StopClosesChannels(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	if err := w.Start(tmpDir); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	events := w.Events()
	errs := w.Errors()

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("Events channel should be closed after Stop()")
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout verifying events channel closure")
	}

	select {
	case _, ok := <-errs:
		if ok {
			t.Error("Errors channel should be closed after Stop()")
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout verifying errors channel closure")
	}
}

// TestWatcher_StartNonexistentDirectory verifies that a missing root
// fails Start.
func TestWatcher_StartNonexistentDirectory(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Start() should fail for a nonexistent directory")
	}
}
