// Package recovery drives the failure flow after a command exits non-zero:
// an optional sudo retry when stderr shows a permission denial, then a
// one-shot offer of AI diagnosis with a suggested fix.
package recovery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"aish/internal/ai"
	"aish/internal/execute"
	"aish/internal/safety"
	"aish/internal/terminal"
)

// permissionSignals are scanned for in captured stderr, case-sensitive.
var permissionSignals = []string{
	"Permission denied",
	"permission denied",
	"EACCES",
	"Operation not permitted",
	"must be root",
	"Access denied",
}

const elevationPrefix = "sudo "

// Runner executes a command string; satisfied by *execute.Runner.
type Runner interface {
	Run(command, cwd string, env []string) execute.Result
}

// Orchestrator owns one recovery flow. It is re-created cheaply per failure
// by the shell driver.
type Orchestrator struct {
	Runner   Runner
	Invoker  ai.Invoker
	Prompter *terminal.Prompter
	Checker  *safety.Checker
	Out      io.Writer

	// FixPrompt is the fully built system prompt for diagnosis requests.
	FixPrompt string
	// Timeout bounds the invoker call.
	Timeout time.Duration

	// OnRun is called for every command the flow executes, so the driver
	// can record history and transcripts. May be nil.
	OnRun func(command string, result execute.Result, aiGenerated bool)
}

// state is a step of the recovery machine. The flow is iterative with a
// fixed fix budget, never recursive, so the worst-case interaction is
// bounded.
type state int

const (
	stateFailed state = iota
	statePermissionOffer
	stateFixOffer
	stateDone
)

// Handle runs the recovery flow for a failed command. cwd and env describe
// the session at the time of failure.
func (o *Orchestrator) Handle(command string, result execute.Result, cwd string, env []string) {
	current := stateFailed
	fixBudget := 1

	for current != stateDone {
		switch current {
		case stateFailed:
			if o.hasPermissionSignal(result.Stderr) && !strings.HasPrefix(command, elevationPrefix) {
				current = statePermissionOffer
			} else {
				current = stateFixOffer
			}

		case statePermissionOffer:
			question := terminal.Errorf("permission denied") + " - retry with " +
				terminal.Warnf("sudo") + "? [y/N] "
			if !o.Prompter.ConfirmYes(question) {
				current = stateFixOffer
				continue
			}

			elevated := elevationPrefix + command
			retry := o.run(elevated, cwd, env, false)
			if retry.ExitCode == 0 {
				current = stateDone
				continue
			}
			// One more fix offer for the elevated failure, then stop
			// regardless of outcome.
			result = retry
			current = stateFixOffer

		case stateFixOffer:
			if fixBudget == 0 || !o.Invoker.Available() {
				current = stateDone
				continue
			}
			fixBudget--

			question := terminal.Dimf(fmt.Sprintf("exit %d", result.ExitCode)) +
				" - press " + terminal.Warnf("f") + " for AI help or enter to continue "
			answer := o.Prompter.ReadLine(question)
			if answer != "f" && answer != "fix" {
				current = stateDone
				continue
			}

			o.diagnose(command, result, cwd, env)
			current = stateDone
		}
	}
}

// diagnose asks the assistant about the failure and optionally runs the
// suggested command. A failing suggestion is terminal: the flow never
// re-enters itself.
func (o *Orchestrator) diagnose(command string, result execute.Result, cwd string, env []string) {
	errorContext := fmt.Sprintf("Command: %s\nExit code: %d\nStderr:\n%s",
		command, result.ExitCode, result.Stderr)

	ctx := context.Background()
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	fmt.Fprint(o.Out, terminal.Dimf("analyzing..."))
	reply, err := o.Invoker.Invoke(ctx, o.FixPrompt, errorContext, cwd)
	fmt.Fprint(o.Out, "\r\033[K")
	if err != nil {
		fmt.Fprintln(o.Out, terminal.Errorf("couldn't analyze that"))
		return
	}

	explanation, suggested := ai.SplitFix(ai.StripCodeFences(reply))
	fmt.Fprintln(o.Out, terminal.Warnf(explanation))
	if suggested == "" {
		return
	}

	fmt.Fprintf(o.Out, "%s %s\n", terminal.Commandf(">"), suggested)

	if o.Checker != nil && o.Checker.IsDangerous(suggested) {
		if !o.Prompter.ConfirmYes(terminal.Warnf("this looks destructive") + " - run anyway? [y/N] ") {
			return
		}
	} else if !o.Prompter.ConfirmRun(terminal.Dimf("[enter] run / [s]kip") + " ") {
		return
	}

	o.run(suggested, cwd, env, true)
}

func (o *Orchestrator) run(command, cwd string, env []string, aiGenerated bool) execute.Result {
	result := o.Runner.Run(command, cwd, env)
	if o.OnRun != nil {
		o.OnRun(command, result, aiGenerated)
	}
	return result
}

func (o *Orchestrator) hasPermissionSignal(stderr string) bool {
	for _, signal := range permissionSignals {
		if strings.Contains(stderr, signal) {
			return true
		}
	}
	return false
}
