// Package autosync implements the core of gitwatch: a sync session
// describing what to commit where, a runner that executes the
// stage-commit-push sequence, and a daemon that ties the runner to the
// filesystem watcher.
package autosync

import (
	"strings"
	"time"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// TimestampLayout is the UTC commit timestamp format, seconds precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

// DefaultTemplate is the commit message used when none is configured.
// The {ts} placeholder expands to the sync timestamp.
const DefaultTemplate = "autosync: {ts}"

// Session holds the read-only parameters of a sync session.
// It is created once at startup from configuration and never mutated.
type Session struct {
	// Root is the repository root path
	Root string

	// Remote is the remote name pushes go to
	Remote string

	// Branch is the branch pushes target
	Branch string

	// Template is the commit message template ({ts} placeholder)
	Template string

	// Push controls whether the push step runs at all
	Push bool
}

// NewSession builds a session against the given repository.
//
// An empty branch resolves to the currently checked-out branch; if that
// query fails or reports detached HEAD, the default branch name is used.
// An empty remote resolves to the default remote, an empty template to
// the default template.
func NewSession(v vcs.VCS, remote, branch, template string, push bool) (*Session, error) {
	root, err := v.RepoRoot()
	if err != nil {
		return nil, err
	}

	if remote == "" {
		remote = vcs.DefaultRemote
	}

	if branch == "" {
		current, err := v.CurrentBranch()
		if err != nil || current == "" {
			branch = vcs.DefaultBranch
		} else {
			branch = current
		}
	}

	if template == "" {
		template = DefaultTemplate
	}

	return &Session{
		Root:     root,
		Remote:   remote,
		Branch:   branch,
		Template: template,
		Push:     push,
	}, nil
}

// FormatMessage expands the session's commit message template with the
// given timestamp.
func (s *Session) FormatMessage(ts string) string {
	return strings.ReplaceAll(s.Template, "{ts}", ts)
}

// Timestamp returns the given time formatted for commit messages.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
