package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const maxTranscriptEntries = 1000

// Session is the transcript of one shell session: every executed command
// and its exit status.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Commands  []Record  `json:"commands"`

	dir string
}

// Record is one executed command in a transcript.
type Record struct {
	Command  string    `json:"command"`
	ExitCode int       `json:"exit_code"`
	At       time.Time `json:"at"`
	// AIGenerated marks commands that came from the assistant rather than
	// the user's own typing.
	AIGenerated bool `json:"ai_generated,omitempty"`
}

// NewSession creates a transcript stored under dir.
func NewSession(dir string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: now,
		UpdatedAt: now,
		dir:       dir,
	}
}

// Record appends an executed command to the transcript.
func (s *Session) Record(command string, exitCode int, aiGenerated bool) {
	s.Commands = append(s.Commands, Record{
		Command:     command,
		ExitCode:    exitCode,
		At:          time.Now(),
		AIGenerated: aiGenerated,
	})
}

// Save persists the transcript as <dir>/<id>.json, trimmed to the most
// recent entries.
func (s *Session) Save() error {
	if len(s.Commands) == 0 {
		return nil
	}
	if len(s.Commands) > maxTranscriptEntries {
		s.Commands = s.Commands[len(s.Commands)-maxTranscriptEntries:]
	}
	s.UpdatedAt = time.Now()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(s.dir, s.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession reads a transcript back by ID.
func LoadSession(dir, id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	s.dir = dir
	return &s, nil
}
