// Package prompt supplies the system prompt templates for the assistant.
// Compiled-in defaults are written to ~/.aish/prompts/ on first run and can
// be overridden there.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults
var defaults embed.FS

// Set holds the five prompt templates plus the personality string.
type Set struct {
	Generate    string
	Explain     string
	Ask         string
	Fix         string
	Script      string
	Personality string
}

var promptFiles = []struct {
	name  string
	field func(*Set) *string
}{
	{"generate.txt", func(s *Set) *string { return &s.Generate }},
	{"explain.txt", func(s *Set) *string { return &s.Explain }},
	{"ask.txt", func(s *Set) *string { return &s.Ask }},
	{"fix.txt", func(s *Set) *string { return &s.Fix }},
	{"script.txt", func(s *Set) *string { return &s.Script }},
}

// Load reads the prompt set for the config directory, falling back to the
// embedded defaults for anything missing. The personality file lives at the
// directory root, the templates under prompts/.
func Load(configDir string) *Set {
	promptsDir := filepath.Join(configDir, "prompts")

	set := &Set{}
	for _, pf := range promptFiles {
		*pf.field(set) = loadOne(filepath.Join(promptsDir, pf.name), pf.name)
	}
	set.Personality = loadOne(filepath.Join(configDir, "personality"), "personality")
	return set
}

func loadOne(path, defaultName string) string {
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}
	data, err := defaults.ReadFile("defaults/" + defaultName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// EnsureDefaults writes the embedded defaults into the config directory
// when it does not exist yet, so users have files to edit. Existing files
// are never overwritten.
func EnsureDefaults(configDir string) error {
	promptsDir := filepath.Join(configDir, "prompts")
	if err := os.MkdirAll(promptsDir, 0755); err != nil {
		return fmt.Errorf("failed to create prompts directory: %w", err)
	}

	for _, pf := range promptFiles {
		if err := writeDefault(filepath.Join(promptsDir, pf.name), pf.name); err != nil {
			return err
		}
	}
	return writeDefault(filepath.Join(configDir, "personality"), "personality")
}

func writeDefault(path, defaultName string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := defaults.ReadFile("defaults/" + defaultName)
	if err != nil {
		return fmt.Errorf("missing embedded default %s: %w", defaultName, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
