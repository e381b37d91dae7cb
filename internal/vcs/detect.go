package vcs

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectionResult contains information about the detected VCS
type DetectionResult struct {
	// Type is the detected VCS type
	Type Type

	// RepoRoot is the repository root directory path
	RepoRoot string

	// VCSDir is the VCS metadata directory path (.git or .jj)
	VCSDir string

	// HasGit indicates a .git directory/file was found
	HasGit bool

	// HasJJ indicates a .jj directory was found
	HasJJ bool

	// Colocated indicates both git and jj are present
	Colocated bool

	// IsWorktree indicates this is a git worktree (not main repo)
	IsWorktree bool
}

// Detect identifies the VCS type for a given directory.
//
// Detection precedence:
//  1. Check for .jj directory (indicates jj or colocated mode)
//  2. Check for .git directory or file (indicates git or worktree)
//  3. Walk up parent directories until VCS found or root reached
//
// For colocated repositories (both .jj and .git present), the Type
// will be TypeColocate. Use PreferredVCS() to determine which
// implementation to use.
//
// Returns ErrNotInVCS if no VCS is found.
func Detect(path string) (*DetectionResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{}

	// Walk up the directory tree
	current := absPath
	for {
		jjDir := filepath.Join(current, ".jj")
		gitPath := filepath.Join(current, ".git")

		// Check for .jj directory
		if info, err := os.Stat(jjDir); err == nil && info.IsDir() {
			result.HasJJ = true
			if result.RepoRoot == "" {
				result.RepoRoot = current
				result.VCSDir = jjDir
			}
		}

		// Check for .git (directory or file for worktrees)
		if info, err := os.Stat(gitPath); err == nil {
			result.HasGit = true

			if info.Mode().IsRegular() {
				// .git is a file - this is a worktree
				result.IsWorktree = true
				if result.RepoRoot == "" {
					result.RepoRoot = current
					result.VCSDir = resolveWorktreeGitDir(current, gitPath)
				}
			} else if info.IsDir() {
				if result.RepoRoot == "" {
					result.RepoRoot = current
					result.VCSDir = gitPath
				}
			}
		}

		// If we found VCS markers, determine the type and return
		if result.HasJJ || result.HasGit {
			result.Colocated = result.HasJJ && result.HasGit

			switch {
			case result.HasJJ && result.HasGit:
				result.Type = TypeColocate
			case result.HasJJ:
				result.Type = TypeJJ
			default:
				result.Type = TypeGit
			}

			return result, nil
		}

		// Move to parent directory
		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root without finding VCS
			return nil, ErrNotInVCS
		}
		current = parent
	}
}

// resolveWorktreeGitDir resolves the metadata directory from a worktree's
// .git file.
//
// Git worktrees have a .git file (not directory) containing:
//
//	gitdir: /path/to/main/.git/worktrees/worktree-name
func resolveWorktreeGitDir(worktreePath, gitFile string) string {
	content, err := os.ReadFile(gitFile)
	if err != nil {
		return gitFile
	}

	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir: ") {
		return gitFile
	}

	gitDir := strings.TrimPrefix(line, "gitdir: ")

	// Handle relative paths
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(worktreePath, gitDir)
	}

	return filepath.Clean(gitDir)
}

// PreferredVCS returns the preferred VCS type for colocated repositories.
//
// Preference order:
//  1. GITWATCH_VCS environment variable ("git" or "jj")
//  2. Default preference (git, as it is the common case for auto-sync)
func PreferredVCS() Type {
	if pref := os.Getenv("GITWATCH_VCS"); pref != "" {
		switch strings.ToLower(pref) {
		case "jj", "jujutsu":
			return TypeJJ
		case "git":
			return TypeGit
		}
	}

	return TypeGit
}

// IsGitAvailable checks if the git command is available on the system
func IsGitAvailable() bool {
	return binaryAvailable("git")
}

// IsJJAvailable checks if the jj command is available on the system
func IsJJAvailable() bool {
	return binaryAvailable("jj")
}

// binaryAvailable checks PATH for the named binary
func binaryAvailable(name string) bool {
	pathEnv := os.Getenv("PATH")
	if pathEnv == "" {
		return false
	}

	for _, dir := range strings.Split(pathEnv, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}

	return false
}

// DetectWithAvailability performs detection and checks binary availability.
// Returns an error if the required VCS binary is not available.
func DetectWithAvailability(path string) (*DetectionResult, error) {
	result, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch result.Type {
	case TypeGit:
		if !IsGitAvailable() {
			return nil, ErrVCSNotAvailable
		}
	case TypeJJ:
		if !IsJJAvailable() {
			return nil, ErrVCSNotAvailable
		}
	case TypeColocate:
		// For colocated, we need at least one to be available
		hasGit := IsGitAvailable()
		hasJJ := IsJJAvailable()
		if !hasGit && !hasJJ {
			return nil, ErrVCSNotAvailable
		}
		if hasGit && !hasJJ {
			result.HasJJ = false
			result.Type = TypeGit
			result.Colocated = false
		} else if hasJJ && !hasGit {
			result.HasGit = false
			result.Type = TypeJJ
			result.Colocated = false
		}
	}

	return result, nil
}
