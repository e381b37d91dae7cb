// Package watch provides recursive filesystem watching with debounced
// change notification for the sync daemon.
package watch

import (
	"path/filepath"
	"strings"
)

// Filter decides which filesystem paths are relevant to the watcher.
//
// Events inside VCS metadata directories must never trigger a sync:
// commits rewrite .git continuously and would otherwise re-arm the
// debounce timer forever. User-configured ignore substrings are matched
// against the absolute path, like the client's own ignore rules they
// supplement (but do not replace - staging still honors .gitignore).
type Filter struct {
	// metaDirs are VCS metadata directory names (".git", ".jj")
	metaDirs []string

	// ignore holds user-configured substring patterns
	ignore []string
}

// NewFilter creates a filter that skips the given metadata directories
// and ignore substrings. Empty ignore entries are dropped.
func NewFilter(metaDirs []string, ignore []string) *Filter {
	f := &Filter{metaDirs: metaDirs}
	for _, pattern := range ignore {
		if pattern != "" {
			f.ignore = append(f.ignore, pattern)
		}
	}
	return f
}

// Skip reports whether the given path must be discarded.
// The path is made absolute before matching.
func (f *Filter) Skip(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}

	sep := string(filepath.Separator)

	for _, dir := range f.metaDirs {
		marker := sep + dir + sep
		if strings.Contains(absPath, marker) || strings.HasSuffix(absPath, sep+dir) {
			return true
		}
	}

	for _, pattern := range f.ignore {
		if strings.Contains(absPath, pattern) {
			return true
		}
	}

	return false
}

// DefaultMetaDirs returns the metadata directory names skipped by default.
func DefaultMetaDirs() []string {
	return []string{".git", ".jj"}
}
