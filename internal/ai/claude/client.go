// Package claude invokes the claude CLI as the AI assistant.
package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Client shells out to the claude CLI in print mode.
type Client struct {
	// Command is the executable name, "claude" by default.
	Command string
}

// NewClient creates a CLI-backed invoker.
func NewClient(command string) *Client {
	if command == "" {
		command = "claude"
	}
	return &Client{Command: command}
}

// Available reports whether the CLI can be found on PATH.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.Command)
	return err == nil
}

// Invoke runs the CLI with the system prompt and a context block built
// around the user message. A failed or empty invocation returns an error
// after logging a one-line diagnostic.
func (c *Client) Invoke(ctx context.Context, systemPrompt, userMessage, cwd string) (string, error) {
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	contextBlock := fmt.Sprintf(
		"Current directory: %s\nOS: %s\nShell: aish\nUser: %s\n\nUser input: %s",
		cwd, runtime.GOOS, user, userMessage,
	)

	cmd := exec.CommandContext(ctx, c.Command,
		"--print", "--no-input", "--system", systemPrompt, contextBlock)
	cmd.Dir = cwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		fmt.Fprintf(os.Stderr, "%s error: %s\n", c.Command, diag)
		return "", fmt.Errorf("%s invocation failed: %w", c.Command, err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.New("empty reply")
	}
	return text, nil
}
