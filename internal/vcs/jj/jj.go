// Package jj implements the VCS interface for Jujutsu (jj).
//
// Jujutsu is a Git-compatible version control system with automatic
// change tracking: there is no staging area, so StageAll is a no-op and
// "has changes" means the working-copy change has a non-empty diff.
//
// This implementation wraps the jj CLI using os/exec.
package jj

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

func init() {
	vcs.Register(vcs.TypeJJ, func(repoRoot string) (vcs.VCS, error) {
		return New(repoRoot)
	})
}

// JJ implements the VCS interface for Jujutsu.
type JJ struct {
	// repoRoot is the repository root directory
	repoRoot string

	// jjDir is the .jj directory path
	jjDir string

	// isColocated indicates if this is a colocated repo (.jj + .git)
	isColocated bool
}

// New creates a new JJ instance for the given repository root.
// The repository must already be initialized with jj (have a .jj directory).
func New(repoRoot string) (*JJ, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	jjDir := filepath.Join(absRoot, ".jj")
	if _, err := os.Stat(jjDir); err != nil {
		return nil, vcs.ErrNotInVCS
	}

	// Check if colocated (both .jj and .git exist)
	_, gitErr := os.Stat(filepath.Join(absRoot, ".git"))

	return &JJ{
		repoRoot:    absRoot,
		jjDir:       jjDir,
		isColocated: gitErr == nil,
	}, nil
}

// Name returns the VCS type.
// Returns "jj" for non-colocated repos, "colocate" for colocated repos.
func (j *JJ) Name() vcs.Type {
	if j.isColocated {
		return vcs.TypeColocate
	}
	return vcs.TypeJJ
}

// Version returns the jj binary version string.
func (j *JJ) Version() (string, error) {
	output, err := vcs.ExecSimple(j.repoRoot, "jj", "--version")
	if err != nil {
		return "", fmt.Errorf("failed to get jj version: %w", err)
	}

	// Parse "jj 0.32.0" to "0.32.0"
	version := vcs.TrimOutput(output)
	parts := strings.Fields(version)
	if len(parts) >= 2 {
		return parts[1], nil
	}

	return version, nil
}

// RepoRoot returns the repository root directory path.
func (j *JJ) RepoRoot() (string, error) {
	return j.repoRoot, nil
}

// VCSDir returns the .jj directory path.
func (j *JJ) VCSDir() (string, error) {
	return j.jjDir, nil
}

// Exec executes a raw jj command.
// This is the internal command runner used by all other methods.
func (j *JJ) Exec(ctx context.Context, args ...string) ([]byte, error) {
	output, err := vcs.ExecContext(ctx, vcs.DefaultCommandTimeout, j.repoRoot, "jj", args...)
	if err != nil {
		// Detect specific error conditions from stderr patterns
		errStr := err.Error()
		if strings.Contains(errStr, "No workspace configured") {
			return nil, vcs.ErrNotInVCS
		}
		if strings.Contains(errStr, "No remote configured") {
			return nil, vcs.ErrNoRemote
		}
		return nil, err
	}

	return output, nil
}

// execWithOutput is a helper that runs a command and returns stdout as string.
func (j *JJ) execWithOutput(ctx context.Context, args ...string) (string, error) {
	output, err := j.Exec(ctx, args...)
	if err != nil {
		return "", err
	}
	return vcs.TrimOutput(output), nil
}
