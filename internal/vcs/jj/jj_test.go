package jj

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// setupTestRepo creates a jj repository in a temp directory.
// Skips the test when jj is not installed.
func setupTestRepo(t *testing.T) (*JJ, string) {
	t.Helper()

	if !vcs.IsJJAvailable() {
		t.Skip("jj binary not available")
	}

	tmpDir := t.TempDir()
	if _, err := vcs.ExecSimple(tmpDir, "jj", "git", "init"); err != nil {
		t.Fatalf("jj git init failed: %v", err)
	}

	j, err := New(tmpDir)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return j, tmpDir
}

// TestNew_OutsideRepo verifies ErrNotInVCS outside a repository.
func TestNew_OutsideRepo(t *testing.T) {
	if !vcs.IsJJAvailable() {
		t.Skip("jj binary not available")
	}

	_, err := New(t.TempDir())
	if !errors.Is(err, vcs.ErrNotInVCS) {
		t.Errorf("New() error = %v, want ErrNotInVCS", err)
	}
}

// TestJJ_Detect verifies repository discovery.
func TestJJ_Detect(t *testing.T) {
	j, tmpDir := setupTestRepo(t)

	root, err := j.RepoRoot()
	if err != nil {
		t.Fatalf("RepoRoot() failed: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(tmpDir)
	if root != resolved && root != tmpDir {
		t.Errorf("RepoRoot() = %s, want %s", root, tmpDir)
	}

	vcsDir, err := j.VCSDir()
	if err != nil {
		t.Fatalf("VCSDir() failed: %v", err)
	}
	if filepath.Base(vcsDir) != ".jj" {
		t.Errorf("VCSDir() = %s, want a .jj path", vcsDir)
	}
}

// TestJJ_Version verifies version parsing.
func TestJJ_Version(t *testing.T) {
	j, _ := setupTestRepo(t)

	version, err := j.Version()
	if err != nil {
		t.Fatalf("Version() failed: %v", err)
	}
	if version == "" {
		t.Error("Version() returned empty string")
	}
}

// TestJJ_ChangeCycle verifies status, diff, and commit against the
// auto-tracking working copy.
func TestJJ_ChangeCycle(t *testing.T) {
	j, tmpDir := setupTestRepo(t)
	ctx := context.Background()

	changed, err := j.HasChanges(ctx)
	if err != nil {
		t.Fatalf("HasChanges() failed: %v", err)
	}
	if changed {
		t.Fatal("Fresh repo should be clean")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("hello\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// Snapshot the working copy
	if err := j.StageAll(ctx); err != nil {
		t.Fatalf("StageAll() failed: %v", err)
	}

	changed, err = j.HasChanges(ctx)
	if err != nil {
		t.Fatalf("HasChanges() failed: %v", err)
	}
	if !changed {
		t.Fatal("New file should count as a change")
	}

	summary, err := j.DiffSummary(ctx)
	if err != nil {
		t.Fatalf("DiffSummary() failed: %v", err)
	}
	if summary == "" {
		t.Error("DiffSummary() should mention the new file")
	}

	if err := j.Commit(ctx, vcs.CommitOptions{Message: "add notes"}); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	changed, err = j.HasChanges(ctx)
	if err != nil {
		t.Fatalf("HasChanges() failed: %v", err)
	}
	if changed {
		t.Error("Working copy should be clean after commit")
	}

	hash, err := j.GetCommitHash("")
	if err != nil {
		t.Fatalf("GetCommitHash() failed: %v", err)
	}
	if hash == "" {
		t.Error("GetCommitHash() returned empty hash")
	}
}

// TestJJ_CommitRequiresMessage verifies the empty-message guard.
func TestJJ_CommitRequiresMessage(t *testing.T) {
	j, _ := setupTestRepo(t)

	if err := j.Commit(context.Background(), vcs.CommitOptions{}); err == nil {
		t.Error("Commit() without message should fail")
	}
}
