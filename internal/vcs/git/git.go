// Package git provides a Git implementation of the VCS interface.
//
// This package wraps the git command-line client to provide the
// operations gitwatch needs: repository discovery, staging, status,
// commits, and pushes. A library binding is deliberately not used; the
// CLI client honors the user's full git configuration (ignore rules,
// hooks, credential helpers) without reimplementation.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

func init() {
	vcs.Register(vcs.TypeGit, func(repoRoot string) (vcs.VCS, error) {
		return New(repoRoot)
	})
}

// Git implements the VCS interface for git repositories.
type Git struct {
	// repoRoot is the repository root directory path
	repoRoot string

	// vcsDir is the .git directory path (resolved for worktrees)
	vcsDir string

	// isWorktree indicates if this is a git worktree
	isWorktree bool
}

// New creates a new Git VCS instance for the given repository.
// The path should be somewhere within a git repository.
func New(path string) (*Git, error) {
	g := &Git{}

	if err := g.detect(path); err != nil {
		return nil, err
	}

	return g, nil
}

// detect populates git repository information
func (g *Git) detect(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Use git rev-parse to get all info in one call
	output, err := vcs.ExecSimple(absPath, "git", "rev-parse", "--git-dir", "--git-common-dir", "--show-toplevel")
	if err != nil {
		return vcs.ErrNotInVCS
	}

	lines := strings.Split(vcs.TrimOutput(output), "\n")
	if len(lines) < 3 {
		return fmt.Errorf("unexpected git rev-parse output: got %d lines, expected 3", len(lines))
	}

	gitDir := strings.TrimSpace(lines[0])
	commonDir := strings.TrimSpace(lines[1])
	repoRoot := strings.TrimSpace(lines[2])

	// Convert to absolute paths
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(absPath, gitDir)
	}
	if !filepath.IsAbs(commonDir) {
		commonDir = filepath.Join(absPath, commonDir)
	}

	g.vcsDir = gitDir
	g.repoRoot = normalizeRepoRoot(repoRoot)

	// Detect worktree by comparing git-dir and common-dir
	absGitDir, _ := filepath.Abs(gitDir)
	absCommonDir, _ := filepath.Abs(commonDir)
	g.isWorktree = absGitDir != absCommonDir

	return nil
}

// normalizeRepoRoot normalizes the repository root path.
// Resolves symlinks and canonicalizes case on case-insensitive filesystems.
func normalizeRepoRoot(path string) string {
	path = filepath.FromSlash(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	return path
}

// Name returns the VCS type (git)
func (g *Git) Name() vcs.Type {
	return vcs.TypeGit
}

// Version returns the git version string
func (g *Git) Version() (string, error) {
	output, err := vcs.ExecSimple(g.repoRoot, "git", "--version")
	if err != nil {
		return "", fmt.Errorf("failed to get git version: %w", err)
	}

	// Output format: "git version 2.39.0"
	version := vcs.TrimOutput(output)
	version = strings.TrimPrefix(version, "git version ")

	return version, nil
}

// RepoRoot returns the repository root directory path
func (g *Git) RepoRoot() (string, error) {
	if g.repoRoot == "" {
		return "", vcs.ErrNotInVCS
	}
	return g.repoRoot, nil
}

// VCSDir returns the .git directory path
func (g *Git) VCSDir() (string, error) {
	if g.vcsDir == "" {
		return "", vcs.ErrNotInVCS
	}
	return g.vcsDir, nil
}

// IsWorktree returns true if this repository is a git worktree
func (g *Git) IsWorktree() bool {
	return g.isWorktree
}

// Exec executes a raw git command in the repository root
func (g *Git) Exec(ctx context.Context, args ...string) ([]byte, error) {
	return vcs.ExecContext(ctx, vcs.DefaultCommandTimeout, g.repoRoot, "git", args...)
}
