package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// CurrentBranch returns the checked-out branch name.
// Returns empty string if in detached HEAD state.
func (g *Git) CurrentBranch() (string, error) {
	output, err := vcs.ExecSimple(g.repoRoot, "git", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		// Detached HEAD makes symbolic-ref fail with "not a symbolic ref"
		if strings.Contains(err.Error(), "not a symbolic ref") {
			return "", nil
		}
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	return vcs.TrimOutput(output), nil
}

// HasRemote returns true if any remote is configured
func (g *Git) HasRemote() bool {
	output, err := vcs.ExecSimple(g.repoRoot, "git", "remote")
	if err != nil {
		return false
	}

	return len(vcs.TrimOutput(output)) > 0
}

// GetRemotes returns information about configured remotes
func (g *Git) GetRemotes() ([]vcs.RemoteInfo, error) {
	output, err := vcs.ExecSimple(g.repoRoot, "git", "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("git remote -v failed: %w", err)
	}

	// Parse output: "origin url (fetch)"
	seen := make(map[string]bool)
	var remotes []vcs.RemoteInfo

	for _, line := range vcs.ParseLines(output) {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		name := parts[0]
		if seen[name] {
			// Skip push duplicates
			continue
		}
		seen[name] = true

		remotes = append(remotes, vcs.RemoteInfo{
			Name: name,
			URL:  parts[1],
		})
	}

	return remotes, nil
}

// Push pushes changes to the remote
func (g *Git) Push(ctx context.Context, opts vcs.PushOptions) error {
	if !g.HasRemote() {
		return vcs.ErrNoRemote
	}

	remote := opts.Remote
	if remote == "" {
		remote = g.configuredRemote()
	}

	ref := opts.Ref
	if ref == "" {
		var err error
		ref, err = g.CurrentBranch()
		if err != nil {
			return err
		}
		if ref == "" {
			return vcs.ErrDetached
		}
	}

	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, ref)

	if _, err := g.Exec(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "rejected") || strings.Contains(err.Error(), "non-fast-forward") {
			return vcs.ErrPushRejected
		}
		return fmt.Errorf("git push failed: %w", err)
	}

	return nil
}

// configuredRemote returns the upstream remote for the current branch,
// falling back to the default remote name.
func (g *Git) configuredRemote() string {
	branch, err := g.CurrentBranch()
	if err == nil && branch != "" {
		output, err := vcs.ExecSimple(g.repoRoot, "git", "config", "--get",
			fmt.Sprintf("branch.%s.remote", branch))
		if err == nil {
			if remote := vcs.TrimOutput(output); remote != "" {
				return remote
			}
		}
	}

	return vcs.DefaultRemote
}
