package jj

import (
	"context"
	"fmt"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// StageAll is a no-op in jj (files are auto-tracked).
// This method exists for VCS interface compatibility.
func (j *JJ) StageAll(ctx context.Context) error {
	// jj has no staging area - changes are automatically tracked.
	// Snapshot the working copy so subsequent queries see fresh state.
	_, err := j.Exec(ctx, "status")
	return err
}

// HasChanges returns true if the working-copy change has a non-empty diff.
func (j *JJ) HasChanges(ctx context.Context) (bool, error) {
	output, err := j.execWithOutput(ctx, "diff", "--summary")
	if err != nil {
		return false, err
	}

	return output != "", nil
}

// DiffSummary returns the working-copy diffstat.
func (j *JJ) DiffSummary(ctx context.Context) (string, error) {
	return j.execWithOutput(ctx, "diff", "--stat")
}

// Commit creates a commit with the specified options.
//
// In jj, `jj commit` describes the working-copy change and starts a new
// empty change on top, which matches the commit-and-continue semantics
// the sync runner expects.
func (j *JJ) Commit(ctx context.Context, opts vcs.CommitOptions) error {
	if opts.Message == "" {
		return fmt.Errorf("commit message is required")
	}

	if _, err := j.Exec(ctx, "commit", "-m", opts.Message); err != nil {
		if strings.Contains(err.Error(), "empty") {
			return vcs.ErrNothingToCommit
		}
		return fmt.Errorf("jj commit failed: %w", err)
	}

	return nil
}

// GetCommitHash returns the commit ID (not change ID) for the given
// revision. An empty ref resolves to @-, the most recent finished
// change (jj commit leaves a fresh empty change at @).
func (j *JJ) GetCommitHash(ref string) (string, error) {
	ctx := context.Background()

	if ref == "" {
		ref = "@-"
	}

	output, err := j.execWithOutput(ctx, "log", "-r", ref, "-n", "1",
		"--no-graph", "-T", "commit_id")
	if err != nil {
		return "", err
	}

	if output == "" {
		return "", fmt.Errorf("could not resolve revision %s", ref)
	}

	return output, nil
}
