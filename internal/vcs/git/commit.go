package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// StageAll stages every change in the working tree.
// Equivalent to `git add -A`, which honors .gitignore rules.
func (g *Git) StageAll(ctx context.Context) error {
	if _, err := g.Exec(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	return nil
}

// HasChanges returns true if there are uncommitted changes
func (g *Git) HasChanges(ctx context.Context) (bool, error) {
	output, err := g.Exec(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}

	return len(vcs.TrimOutput(output)) > 0, nil
}

// DiffSummary returns the staged diffstat, one line per changed file
// plus a summary line.
func (g *Git) DiffSummary(ctx context.Context) (string, error) {
	output, err := g.Exec(ctx, "diff", "--cached", "--stat")
	if err != nil {
		return "", fmt.Errorf("git diff failed: %w", err)
	}

	return vcs.TrimOutput(output), nil
}

// Commit creates a commit with the specified options
func (g *Git) Commit(ctx context.Context, opts vcs.CommitOptions) error {
	if opts.Message == "" {
		return fmt.Errorf("commit message is required")
	}

	args := []string{"commit", "-m", opts.Message}

	if opts.NoVerify {
		args = append(args, "--no-verify")
	}

	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}

	if _, err := g.Exec(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "nothing to commit") {
			return vcs.ErrNothingToCommit
		}
		return fmt.Errorf("git commit failed: %w", err)
	}

	return nil
}

// GetCommitHash returns the commit hash for the given reference.
// An empty ref resolves to HEAD.
func (g *Git) GetCommitHash(ref string) (string, error) {
	if ref == "" {
		ref = "HEAD"
	}

	output, err := vcs.ExecSimple(g.repoRoot, "git", "rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve ref %s: %w", ref, err)
	}

	return vcs.TrimOutput(output), nil
}
