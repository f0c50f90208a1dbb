package classify

import (
	"os"
	"path/filepath"
	"strings"
)

// PathCommandSet is a snapshot of executable basenames visible on the
// search path. It is built once per session and never refreshed, so it goes
// stale if PATH or its directories change mid-session.
type PathCommandSet map[string]struct{}

// BuildPathCommandSet scans every directory on the given PATH value and
// collects entry basenames. Unreadable directories are skipped.
func BuildPathCommandSet(pathVar string) PathCommandSet {
	set := make(PathCommandSet)
	for _, dir := range strings.Split(pathVar, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			set[filepath.Base(entry.Name())] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is a known executable basename.
func (s PathCommandSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
