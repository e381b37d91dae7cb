package autosync

import (
	"errors"
	"testing"
	"time"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// TestNewSession_Defaults verifies empty settings resolve to the
// current branch, default remote, and default template.
func TestNewSession_Defaults(t *testing.T) {
	f := newFakeVCS("/repo")

	s, err := NewSession(f, "", "", "", true)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	if s.Root != "/repo" {
		t.Errorf("Root = %q, want /repo", s.Root)
	}
	if s.Remote != vcs.DefaultRemote {
		t.Errorf("Remote = %q, want %q", s.Remote, vcs.DefaultRemote)
	}
	if s.Branch != "work" {
		t.Errorf("Branch = %q, want the current branch", s.Branch)
	}
	if s.Template != DefaultTemplate {
		t.Errorf("Template = %q, want %q", s.Template, DefaultTemplate)
	}
	if !s.Push {
		t.Error("Push should be enabled")
	}
}

// TestNewSession_BranchFallback verifies a failed or empty branch
// query falls back to the default branch name.
func TestNewSession_BranchFallback(t *testing.T) {
	f := newFakeVCS("/repo")
	f.branchErr = errors.New("not a symbolic ref")

	s, err := NewSession(f, "", "", "", true)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if s.Branch != vcs.DefaultBranch {
		t.Errorf("Branch = %q, want %q on query failure", s.Branch, vcs.DefaultBranch)
	}

	f = newFakeVCS("/repo")
	f.branch = "" // detached

	s, err = NewSession(f, "", "", "", true)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if s.Branch != vcs.DefaultBranch {
		t.Errorf("Branch = %q, want %q when detached", s.Branch, vcs.DefaultBranch)
	}
}

// TestNewSession_ExplicitSettings verifies explicit values win over
// resolution.
func TestNewSession_ExplicitSettings(t *testing.T) {
	f := newFakeVCS("/repo")

	s, err := NewSession(f, "backup", "release", "save: {ts}", false)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	if s.Remote != "backup" || s.Branch != "release" || s.Template != "save: {ts}" {
		t.Errorf("Session = %+v, explicit settings not honored", s)
	}
	if s.Push {
		t.Error("Push should be disabled")
	}
}

// TestSession_FormatMessage verifies {ts} expansion.
func TestSession_FormatMessage(t *testing.T) {
	s := &Session{Template: "autosync: {ts}"}

	got := s.FormatMessage("2026-08-26T10:00:00Z")
	if got != "autosync: 2026-08-26T10:00:00Z" {
		t.Errorf("FormatMessage() = %q", got)
	}

	s.Template = "no placeholder"
	if got := s.FormatMessage("x"); got != "no placeholder" {
		t.Errorf("FormatMessage() = %q, want template unchanged", got)
	}
}

// TestTimestamp verifies UTC formatting at seconds precision.
func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	in := time.Date(2026, 8, 26, 14, 30, 5, 999999999, loc)

	got := Timestamp(in)
	if got != "2026-08-26T12:30:05Z" {
		t.Errorf("Timestamp() = %q, want 2026-08-26T12:30:05Z", got)
	}
}
