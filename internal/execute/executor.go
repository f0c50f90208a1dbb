// Package execute runs command strings through the underlying POSIX shell.
//
// Stdin and stdout are handed to the child unmodified so interactive
// programs, pagers and editors keep working. Stderr is tee'd: every chunk is
// forwarded to the live error stream as-is and a bounded copy is kept for
// failure analysis.
package execute

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CaptureLimit bounds the in-memory stderr copy. Bytes beyond the limit are
// still forwarded live but no longer captured.
const CaptureLimit = 1 << 20

const chunkSize = 4096

// Result is the outcome of one shell invocation.
type Result struct {
	// ExitCode is the child's exit status. Signal-killed and otherwise
	// non-representable statuses map to 1; spawn failures map to 127.
	ExitCode int
	// Stderr is a best-effort snapshot of what was shown on the error
	// stream, truncated at CaptureLimit.
	Stderr string
}

// Runner executes command strings via a POSIX shell.
type Runner struct {
	// ShellPath is the shell executable, "bash" by default.
	ShellPath string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a Runner using the given shell executable.
func NewRunner(shellPath string) *Runner {
	if shellPath == "" {
		shellPath = "bash"
	}
	return &Runner{
		ShellPath: shellPath,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// NewRunnerWithIO creates a Runner with explicit streams (for testing).
func NewRunnerWithIO(shellPath string, stdin io.Reader, stdout, stderr io.Writer) *Runner {
	r := NewRunner(shellPath)
	if stdin != nil {
		r.stdin = stdin
	}
	if stdout != nil {
		r.stdout = stdout
	}
	if stderr != nil {
		r.stderr = stderr
	}
	return r
}

// Run executes command in cwd with the given environment and returns the
// exit status plus the captured stderr. It never returns an error: spawn
// failures synthesize a Result with code 127 and print the diagnostic once.
func (r *Runner) Run(command, cwd string, env []string) Result {
	cmd := exec.Command(r.ShellPath, "-c", command)
	cmd.Dir = cwd
	if env != nil {
		cmd.Env = env
	}
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout

	pipe, err := cmd.StderrPipe()
	if err != nil {
		msg := fmt.Sprintf("failed to execute: %v", err)
		fmt.Fprintln(r.stderr, msg)
		return Result{ExitCode: 127, Stderr: msg}
	}

	if err := cmd.Start(); err != nil {
		msg := fmt.Sprintf("failed to execute: %v", err)
		fmt.Fprintln(r.stderr, msg)
		return Result{ExitCode: 127, Stderr: msg}
	}

	// The capture buffer is owned by the drain goroutine until the channel
	// receive below, so no locking is needed.
	captured := make(chan []byte, 1)
	go func() {
		captured <- drain(pipe, r.stderr)
	}()

	// The pipe must be fully drained before Wait reclaims it.
	capture := <-captured
	err = cmd.Wait()

	return Result{ExitCode: exitCode(err), Stderr: string(capture)}
}

// drain forwards every chunk from the pipe to the live sink unmodified and
// keeps a copy up to CaptureLimit. No line buffering: carriage-return
// progress bars and escape sequences pass through byte-exact.
func drain(pipe io.Reader, live io.Writer) []byte {
	capture := make([]byte, 0, chunkSize)
	buf := make([]byte, chunkSize)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			live.Write(buf[:n])
			if remaining := CaptureLimit - len(capture); remaining > 0 {
				if n > remaining {
					n = remaining
				}
				capture = append(capture, buf[:n]...)
			}
		}
		if err != nil {
			return capture
		}
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	// Killed by signal or not otherwise representable.
	return 1
}
