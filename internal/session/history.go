package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// History keeps the accepted input lines of a session and persists them to
// a plain-text file, one entry per line.
type History struct {
	path    string
	max     int
	entries []string
}

// NewHistory creates a history store backed by path. max bounds the number
// of persisted entries; zero or negative means 1000.
func NewHistory(path string, max int) *History {
	if max <= 0 {
		max = 1000
	}
	return &History{path: path, max: max}
}

// Load reads previously persisted entries. A missing file is not an error.
func (h *History) Load() error {
	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	return scanner.Err()
}

// Add appends an entry, skipping consecutive duplicates.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
}

// Entries returns the recorded lines, oldest first.
func (h *History) Entries() []string {
	return h.entries
}

// Print writes the numbered history to w.
func (h *History) Print(w io.Writer) {
	for i, entry := range h.entries {
		fmt.Fprintf(w, "  %4d  %s\n", i+1, entry)
	}
}

// Save persists the most recent entries, trimmed to the configured bound.
func (h *History) Save() error {
	entries := h.entries
	if len(entries) > h.max {
		entries = entries[len(entries)-h.max:]
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(h.path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
