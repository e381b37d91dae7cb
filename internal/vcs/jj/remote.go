package jj

import (
	"context"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// CurrentBranch returns the bookmark on the parent of the working copy.
// Returns empty string if no bookmark is set (normal in jj).
func (j *JJ) CurrentBranch() (string, error) {
	ctx := context.Background()

	// The working-copy change itself is rarely bookmarked; the bookmark
	// usually sits on its parent.
	output, err := j.execWithOutput(ctx, "log", "-r", "@-", "-n", "1",
		"--no-graph", "-T", "bookmarks")
	if err != nil {
		return "", err
	}

	if output == "" {
		return "", nil
	}

	// Multiple bookmarks come space-separated; use the first.
	// Strip the "*" marker jj adds to bookmarks with unpushed changes.
	bookmark := strings.Fields(output)[0]
	return strings.TrimSuffix(bookmark, "*"), nil
}

// HasRemote returns true if any remote is configured.
func (j *JJ) HasRemote() bool {
	remotes, err := j.GetRemotes()
	if err != nil {
		return false
	}
	return len(remotes) > 0
}

// GetRemotes returns information about configured remotes.
// jj stores remotes in its git backend; `jj git remote list` reports them.
func (j *JJ) GetRemotes() ([]vcs.RemoteInfo, error) {
	ctx := context.Background()

	output, err := j.execWithOutput(ctx, "git", "remote", "list")
	if err != nil {
		return nil, err
	}

	// Format: "origin https://github.com/user/repo.git"
	var remotes []vcs.RemoteInfo
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		remotes = append(remotes, vcs.RemoteInfo{
			Name: fields[0],
			URL:  fields[1],
		})
	}

	return remotes, nil
}

// Push pushes changes to the remote via the git backend.
func (j *JJ) Push(ctx context.Context, opts vcs.PushOptions) error {
	if !j.HasRemote() {
		return vcs.ErrNoRemote
	}

	args := []string{"git", "push"}

	if opts.Remote != "" {
		args = append(args, "--remote", opts.Remote)
	}

	if opts.Ref != "" {
		args = append(args, "-b", opts.Ref)
	}

	if _, err := j.Exec(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "rejected") ||
			strings.Contains(err.Error(), "non-fast-forward") {
			return vcs.ErrPushRejected
		}
		return err
	}

	return nil
}
