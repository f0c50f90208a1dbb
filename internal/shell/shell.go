// Package shell wires the classifier, executor, recovery flow and builtins
// into the three run modes: interactive, piped and script.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"aish/internal/ai"
	"aish/internal/classify"
	"aish/internal/execute"
	"aish/internal/prompt"
	"aish/internal/recovery"
	"aish/internal/safety"
	"aish/internal/session"
	"aish/internal/storage"
	"aish/internal/terminal"
)

// Shell is one running session.
type Shell struct {
	Config   *storage.Config
	Prompts  *prompt.Set
	Runner   recovery.Runner
	Invoker  ai.Invoker
	Ctx      *session.Context
	Commands classify.PathCommandSet
	History  *session.History
	Checker  *safety.Checker
	Prompter *terminal.Prompter
	Renderer *terminal.Renderer

	// Transcript is optional; nil disables session recording.
	Transcript *storage.Session

	Out io.Writer
	Err io.Writer

	// Interactive enables confirmations, recovery and the banner. Piped
	// and script modes leave it false.
	Interactive bool

	aiAvailable bool
	exitNow     bool
}

// New assembles a session from loaded configuration.
func New(cfg *storage.Config, prompts *prompt.Set, invoker ai.Invoker, interactive bool) *Shell {
	ctx := session.NewContext()
	return &Shell{
		Config:      cfg,
		Prompts:     prompts,
		Runner:      execute.NewRunner(cfg.Shell.Path),
		Invoker:     invoker,
		Ctx:         ctx,
		Commands:    classify.BuildPathCommandSet(ctx.Env["PATH"]),
		Checker:     safety.NewChecker(),
		Prompter:    terminal.NewPrompter(os.Stdin, os.Stderr),
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: interactive,
		aiAvailable: invoker != nil && invoker.Available(),
	}
}

// AIAvailable reports the assistant availability decided at session start.
func (s *Shell) AIAvailable() bool { return s.aiAvailable }

// LastExit returns the status of the last executed command.
func (s *Shell) LastExit() int { return s.Ctx.LastExit }

// ExecuteLine classifies and dispatches one trimmed input line. It returns
// true when the session should end; the exit code is then available via
// LastExit.
func (s *Shell) ExecuteLine(line string) bool {
	input := classify.Classify(line, s.Commands)

	switch input.Kind {
	case classify.KindComment:
		// Skipped silently; the last exit code is untouched.

	case classify.KindExit:
		if input.Code != nil {
			s.Ctx.LastExit = *input.Code
		}
		return true

	case classify.KindHelp:
		terminal.PrintHelp(s.Out)
		s.Ctx.LastExit = 0

	case classify.KindHistory:
		if s.History != nil {
			s.History.Print(s.Out)
		}
		s.Ctx.LastExit = 0

	case classify.KindChangeDir:
		s.Ctx.ChangeDir(input.Arg)
		s.Ctx.LastExit = 0

	case classify.KindExport:
		s.Ctx.Export(input.Arg)
		s.Ctx.LastExit = 0

	case classify.KindUnset:
		s.Ctx.Unset(input.Arg)
		s.Ctx.LastExit = 0

	case classify.KindSource:
		s.Ctx.LastExit = s.sourceFile(input.Arg)
		if s.exitNow {
			return true
		}

	case classify.KindForceShell, classify.KindShellCommand:
		result := s.runWithRecovery(input.Arg, false)
		s.Ctx.LastExit = result.ExitCode

	case classify.KindExplain:
		s.explain(input.Arg)
		s.Ctx.LastExit = 0

	case classify.KindAsk:
		s.ask(input.Arg)
		s.Ctx.LastExit = 0

	case classify.KindNaturalLanguage:
		s.Ctx.LastExit = s.naturalLanguage(input.Arg)
	}

	return false
}

// runWithRecovery executes a command and, in interactive sessions with the
// assistant available, enters the recovery flow on failure.
func (s *Shell) runWithRecovery(command string, aiGenerated bool) execute.Result {
	result := s.run(command, aiGenerated)
	if result.ExitCode != 0 && s.Interactive && s.aiAvailable {
		o := &recovery.Orchestrator{
			Runner:    s.Runner,
			Invoker:   s.Invoker,
			Prompter:  s.Prompter,
			Checker:   s.Checker,
			Out:       s.Err,
			FixPrompt: ai.BuildSystemPrompt(s.Prompts.Fix, s.Prompts.Personality),
			Timeout:   s.aiTimeout(),
			OnRun: func(command string, result execute.Result, aiGenerated bool) {
				s.record(command, result, aiGenerated)
			},
		}
		o.Handle(command, result, s.Ctx.Cwd, s.Ctx.Environ())
	}
	return result
}

func (s *Shell) run(command string, aiGenerated bool) execute.Result {
	result := s.Runner.Run(command, s.Ctx.Cwd, s.Ctx.Environ())
	s.record(command, result, aiGenerated)
	return result
}

func (s *Shell) record(command string, result execute.Result, aiGenerated bool) {
	if s.History != nil {
		s.History.Add(command)
	}
	if s.Transcript != nil {
		s.Transcript.Record(command, result.ExitCode, aiGenerated)
	}
}

// sourceFile feeds each non-empty, non-comment line of a file back through
// the dispatcher.
func (s *Shell) sourceFile(path string) int {
	path = s.Ctx.ExpandTilde(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Ctx.Cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(s.Err, terminal.Errorf(fmt.Sprintf("source: %v", err)))
		return 1
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if s.ExecuteLine(line) {
			s.exitNow = true
			break
		}
	}
	return s.Ctx.LastExit
}

// naturalLanguage hands a plain-English request to the assistant. In
// interactive mode the generated command is confirmed and run; otherwise it
// is printed only.
func (s *Shell) naturalLanguage(text string) int {
	if !s.aiAvailable {
		if s.Interactive {
			fmt.Fprintln(s.Err, terminal.Errorf("not a recognized command and the AI assistant is unavailable"))
		} else {
			fmt.Fprintf(s.Err, "aish: command not found: %s\n", text)
		}
		return 127
	}

	base := s.Prompts.Generate
	if s.Interactive && isComplexRequest(text) {
		base = s.Prompts.Script
	}
	systemPrompt := ai.BuildSystemPrompt(base, s.Prompts.Personality)

	reply, err := s.invoke(systemPrompt, text)
	if err != nil {
		fmt.Fprintln(s.Err, terminal.Errorf("couldn't generate a command for that"))
		return 1
	}
	command := ai.StripCodeFences(reply)

	if !s.Interactive {
		fmt.Fprintln(s.Out, command)
		return 0
	}

	fmt.Fprintf(s.Out, "%s %s\n", terminal.Commandf(">"), command)

	dangerous := s.Checker.IsDangerous(command)
	if s.Config.Behavior.Unattended && !dangerous {
		return s.runWithRecovery(command, true).ExitCode
	}

	if dangerous {
		if !s.Prompter.ConfirmYes(terminal.Warnf("this looks destructive") + " run anyway? [y/N] ") {
			fmt.Fprintln(s.Err, terminal.Dimf("skipped"))
			return 0
		}
		return s.runWithRecovery(command, true).ExitCode
	}

	switch s.Prompter.ReadLine(terminal.Dimf("[enter] run / [e]dit / [s]kip") + " ") {
	case "", "r", "run", "y", "yes":
		return s.runWithRecovery(command, true).ExitCode
	case "e", "edit":
		edited := s.Prompter.ReadLine(terminal.Warnf("> "))
		if edited == "" {
			return 0
		}
		return s.runWithRecovery(edited, true).ExitCode
	default:
		fmt.Fprintln(s.Err, terminal.Dimf("skipped"))
		return 0
	}
}

func (s *Shell) explain(subject string) {
	s.answer(s.Prompts.Explain, subject, "couldn't explain that")
}

func (s *Shell) ask(question string) {
	s.answer(s.Prompts.Ask, question, "couldn't answer that")
}

func (s *Shell) answer(basePrompt, message, failure string) {
	if !s.aiAvailable {
		fmt.Fprintln(s.Err, terminal.Errorf("AI assistant not available"))
		return
	}

	reply, err := s.invoke(ai.BuildSystemPrompt(basePrompt, s.Prompts.Personality), message)
	if err != nil {
		fmt.Fprintln(s.Err, terminal.Errorf(failure))
		return
	}

	if s.Renderer != nil {
		fmt.Fprint(s.Out, s.Renderer.Render(reply))
	} else {
		fmt.Fprintln(s.Out, terminal.Answerf(reply))
	}
}

func (s *Shell) invoke(systemPrompt, message string) (string, error) {
	ctx := context.Background()
	if timeout := s.aiTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Fprint(s.Err, terminal.Dimf("thinking..."))
	reply, err := s.Invoker.Invoke(ctx, systemPrompt, message, s.Ctx.Cwd)
	fmt.Fprint(s.Err, "\r\033[K")
	return reply, err
}

func (s *Shell) aiTimeout() time.Duration {
	if s.Config.AI.Timeout <= 0 {
		return 0
	}
	return time.Duration(s.Config.AI.Timeout) * time.Second
}

// isComplexRequest decides whether the multi-step script prompt is a better
// fit than single-command generation.
func isComplexRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{
		" and then ", " step by step", "script", "automate",
		"set up", "setup", "install and configure", "create a project",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// SourceProfile imports the login environment by sourcing the usual profile
// files through the shell and capturing `env -0`.
func (s *Shell) SourceProfile() {
	script := `
		[ -f /etc/profile ] && . /etc/profile 2>/dev/null
		[ -f ~/.profile ] && . ~/.profile 2>/dev/null
		[ -f ~/.bashrc ] && . ~/.bashrc 2>/dev/null
		env -0
	`
	cmd := exec.Command(s.Config.Shell.Path, "-c", script)
	cmd.Dir = s.Ctx.Cwd
	output, err := cmd.Output()
	if err != nil {
		return
	}
	s.Ctx.ImportEnviron(string(output))
}
