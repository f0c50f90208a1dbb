package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aish/internal/session"
	"aish/internal/storage"
	"aish/internal/terminal"
)

// RunInteractive drives the REPL: banner, rc file, prompt loop. It returns
// the process exit code.
func (s *Shell) RunInteractive(in io.Reader) int {
	if !s.aiAvailable {
		fmt.Fprintln(s.Err, terminal.Warnf("warning:")+" AI assistant not reachable. AI features disabled.")
	}

	s.loadHistory()
	s.sourceRCFile()
	if s.exitNow {
		return s.finish()
	}

	terminal.PrintWelcome(s.Out)

	isRoot := os.Geteuid() == 0
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(s.Out, terminal.FormatPrompt(s.Ctx.Cwd, s.Ctx.HomeDir(), isRoot, s.Ctx.LastExit))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(s.Out, terminal.Dimf("bye"))
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			if err != nil {
				break
			}
			continue
		}

		if s.History != nil {
			s.History.Add(input)
		}

		if s.ExecuteLine(input) {
			fmt.Fprintln(s.Out, terminal.Dimf("bye"))
			break
		}
		if err != nil {
			break
		}
	}

	return s.finish()
}

// RunPiped reads commands from a non-terminal stdin. Blank and comment
// lines are skipped; there is no recovery flow and no confirmation. Lines
// are read without a length cap.
func (s *Shell) RunPiped(in io.Reader) int {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintf(s.Err, "aish: read: %v\n", err)
			s.Ctx.LastExit = 1
			break
		}

		input := strings.TrimSpace(line)
		if input != "" && !strings.HasPrefix(input, "#") {
			if s.ExecuteLine(input) {
				break
			}
		}
		if err != nil {
			break
		}
	}
	return s.finish()
}

// RunScript executes a script file line by line. An unreadable file prints
// a diagnostic and exits 127.
func (s *Shell) RunScript(path string) int {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(s.Err, "aish: %s: %v\n", path, err)
		return 127
	}
	defer file.Close()
	return s.RunPiped(file)
}

// RunCommand implements the -c invocation: one command straight through
// the executor.
func (s *Shell) RunCommand(command string) int {
	result := s.run(command, false)
	s.Ctx.LastExit = result.ExitCode
	return s.finish()
}

// finish flushes session state and returns the final exit code.
func (s *Shell) finish() int {
	if s.History != nil {
		if err := s.History.Save(); err != nil {
			fmt.Fprintln(s.Err, terminal.Dimf(err.Error()))
		}
	}
	if s.Transcript != nil {
		if err := s.Transcript.Save(); err != nil {
			fmt.Fprintln(s.Err, terminal.Dimf(err.Error()))
		}
	}
	code := s.Ctx.LastExit
	if code < 0 || code > 255 {
		code = 1
	}
	return code
}

func (s *Shell) loadHistory() {
	configDir, err := storage.ConfigDir()
	if err != nil {
		return
	}
	if s.History == nil {
		s.History = session.NewHistory(filepath.Join(configDir, storage.HistoryName), s.Config.History.MaxEntries)
	}
	if err := s.History.Load(); err != nil {
		fmt.Fprintln(s.Err, terminal.Dimf(err.Error()))
	}
}

// sourceRCFile runs ~/.aish/aishrc before the first prompt, like a bashrc.
func (s *Shell) sourceRCFile() {
	configDir, err := storage.ConfigDir()
	if err != nil {
		return
	}
	rcPath := filepath.Join(configDir, storage.RCFileName)
	if _, err := os.Stat(rcPath); err != nil {
		return
	}
	s.Ctx.LastExit = s.sourceFile(rcPath)
}
