// Package message produces commit messages for sync attempts.
//
// The sync runner asks a Generator for a message before each commit and
// falls back to the session's timestamp template when generation fails,
// so implementations may return errors freely.
package message

import (
	"context"
	"strings"
)

// Generator produces a commit message for one sync attempt.
//
// ts is the attempt's UTC timestamp string and diff a short summary of
// the pending changes (may be empty). An empty returned message is
// treated as a failure by callers.
type Generator interface {
	Generate(ctx context.Context, ts, diff string) (string, error)
}

// Template is a Generator that expands a fixed message template.
// The {ts} placeholder is replaced with the attempt timestamp.
type Template string

// Generate expands the template. It never fails.
func (t Template) Generate(_ context.Context, ts, _ string) (string, error) {
	return strings.ReplaceAll(string(t), "{ts}", ts), nil
}
