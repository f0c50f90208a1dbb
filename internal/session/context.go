// Package session owns the mutable state of one shell session: the working
// directory, the environment, and the command history. Builtin handlers are
// the only mutators; everything else reads by reference.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Context is the explicitly owned session state. It is threaded by pointer
// through builtin handlers and never accessed through globals, so repeated
// test invocations stay isolated.
type Context struct {
	Cwd      string
	Env      map[string]string
	LastExit int

	// Stderr receives builtin diagnostics, os.Stderr by default.
	Stderr io.Writer
	// Stdout receives builtin output such as `cd -` echoing, os.Stdout by
	// default.
	Stdout io.Writer
}

// NewContext snapshots the current process directory and environment.
func NewContext() *Context {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			env[key] = value
		}
	}

	ctx := &Context{
		Cwd:    cwd,
		Env:    env,
		Stderr: os.Stderr,
		Stdout: os.Stdout,
	}
	ctx.Env["PWD"] = cwd
	return ctx
}

// Environ renders the environment in the KEY=VALUE form child processes
// expect, sorted for determinism.
func (c *Context) Environ() []string {
	entries := make([]string, 0, len(c.Env))
	for key, value := range c.Env {
		entries = append(entries, key+"="+value)
	}
	sort.Strings(entries)
	return entries
}

// HomeDir returns the session's home directory, falling back to the OS
// lookup when HOME is unset.
func (c *Context) HomeDir() string {
	if home := c.Env["HOME"]; home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	return home
}

// ChangeDir implements the cd builtin. An empty dir means home, "-" means
// $OLDPWD (printed, like the real builtin). Failures are reported on stderr
// and leave the context untouched.
func (c *Context) ChangeDir(dir string) {
	var target string
	switch {
	case dir == "":
		target = c.HomeDir()
	case dir == "-":
		old, ok := c.Env["OLDPWD"]
		if !ok {
			fmt.Fprintln(c.Stderr, "cd: OLDPWD not set")
			return
		}
		fmt.Fprintln(c.Stdout, old)
		target = old
	default:
		target = c.ExpandTilde(dir)
		if !filepath.IsAbs(target) {
			target = filepath.Join(c.Cwd, target)
		}
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		fmt.Fprintf(c.Stderr, "cd: no such directory: %s\n", target)
		return
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(c.Stderr, "cd: not a directory: %s\n", target)
		return
	}

	c.Env["OLDPWD"] = c.Cwd
	c.Cwd = resolved
	c.Env["PWD"] = resolved
}

// Export implements the export builtin for KEY=VALUE assignments. One level
// of matching quotes around the value is stripped. `export VAR` without an
// assignment is a no-op: the environment is already inherited.
func (c *Context) Export(assignment string) {
	key, value, ok := strings.Cut(assignment, "=")
	if !ok {
		fmt.Fprintln(c.Stderr, "(variable already exported to child processes)")
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	value = unquote(value)
	if key != "" {
		c.Env[key] = value
	}
}

// Unset removes a variable from the session environment.
func (c *Context) Unset(name string) {
	delete(c.Env, strings.TrimSpace(name))
}

// ExpandTilde replaces a leading ~ with the session home directory.
func (c *Context) ExpandTilde(path string) string {
	if path == "~" {
		return c.HomeDir()
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(c.HomeDir(), rest)
	}
	return path
}

// ImportEnviron merges NUL-separated KEY=VALUE entries, as produced by
// `env -0`, into the session environment. Used for login-shell profile
// sourcing.
func (c *Context) ImportEnviron(envOutput string) {
	for _, entry := range strings.Split(envOutput, "\x00") {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			c.Env[key] = value
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
