// Package vcs provides a unified interface for the version-control
// operations gitwatch performs against an external client binary.
//
// This package abstracts the differences between git and jj (Jujutsu),
// letting the sync runner stage, commit, and push without caring which
// client manages the working copy. The design follows a strategy pattern
// with runtime detection and factory creation.
//
// # Architecture
//
// The VCS interface defines the operations the sync runner needs:
//   - Repository discovery (root and metadata directory)
//   - Branch resolution
//   - Staging and working-tree status
//   - Commit and push
//
// # Usage
//
//	// Auto-detect VCS type
//	v, err := vcs.GetForPath(repoPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := v.StageAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Implementations
//
//   - internal/vcs/git: Git implementation (git subcommands)
//   - internal/vcs/jj: Jujutsu implementation (auto-tracked changes)
package vcs

import "context"

// Type represents the VCS backend type
type Type string

const (
	// TypeGit indicates a git-only repository
	TypeGit Type = "git"

	// TypeJJ indicates a jj-only repository (non-colocated)
	TypeJJ Type = "jj"

	// TypeColocate indicates a colocated repository (jj + git together)
	TypeColocate Type = "colocate"
)

// String returns the string representation of the VCS type
func (t Type) String() string {
	return string(t)
}

// VCS defines the version-control operations used by the sync runner.
// Implementations exist for git (internal/vcs/git) and jj (internal/vcs/jj).
type VCS interface {
	// Name returns the VCS type (git, jj, or colocate)
	Name() Type

	// Version returns the VCS binary version string
	Version() (string, error)

	// RepoRoot returns the repository root directory path
	RepoRoot() (string, error)

	// VCSDir returns the VCS metadata directory path (.git or .jj)
	VCSDir() (string, error)

	// CurrentBranch returns the checked-out branch (git) or the bookmark
	// closest to the working copy (jj). Returns empty string in detached
	// HEAD state or when no bookmark is set.
	CurrentBranch() (string, error)

	// HasRemote returns true if any remote is configured
	HasRemote() bool

	// GetRemotes returns information about configured remotes
	GetRemotes() ([]RemoteInfo, error)

	// StageAll stages every change in the working tree, honoring the
	// client's ignore rules. In jj this is a no-op as files are
	// auto-tracked.
	StageAll(ctx context.Context) error

	// HasChanges returns true if there are uncommitted changes,
	// determined from the client's machine-readable status output.
	HasChanges(ctx context.Context) (bool, error)

	// DiffSummary returns a short human-readable summary of the pending
	// changes (the staged diffstat for git).
	DiffSummary(ctx context.Context) (string, error)

	// Commit creates a commit with the specified options
	Commit(ctx context.Context, opts CommitOptions) error

	// Push pushes changes to the remote
	Push(ctx context.Context, opts PushOptions) error

	// GetCommitHash returns the commit hash for the given reference.
	// An empty ref resolves to the most recent commit.
	GetCommitHash(ref string) (string, error)

	// Exec executes a raw VCS command (escape hatch).
	// Use sparingly; prefer interface methods.
	Exec(ctx context.Context, args ...string) ([]byte, error)
}

// RemoteInfo contains information about a remote repository
type RemoteInfo struct {
	// Name is the remote name (e.g., "origin")
	Name string

	// URL is the remote URL
	URL string
}

// CommitOptions configures a commit operation
type CommitOptions struct {
	// Message is the commit message (required)
	Message string

	// NoVerify skips pre-commit hooks
	NoVerify bool

	// AllowEmpty allows creating an empty commit (git only)
	AllowEmpty bool
}

// PushOptions configures a push operation
type PushOptions struct {
	// Remote is the remote name. Empty uses the configured default.
	Remote string

	// Ref is the reference to push. Empty uses the current branch.
	Ref string

	// SetUpstream configures the upstream tracking reference (git only)
	SetUpstream bool
}

// DefaultBranch is the branch used when the current branch cannot be
// resolved (fresh repository, detached HEAD).
const DefaultBranch = "main"

// DefaultRemote is the remote used when none is configured explicitly.
const DefaultRemote = "origin"
