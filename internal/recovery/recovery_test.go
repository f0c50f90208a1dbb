package recovery

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"aish/internal/execute"
	"aish/internal/safety"
	"aish/internal/terminal"
)

type fakeRunner struct {
	commands []string
	results  []execute.Result
}

func (f *fakeRunner) Run(command, cwd string, env []string) execute.Result {
	f.commands = append(f.commands, command)
	if len(f.results) == 0 {
		return execute.Result{ExitCode: 0}
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakeInvoker struct {
	reply     string
	err       error
	available bool
	prompts   []string
	messages  []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, systemPrompt, userMessage, cwd string) (string, error) {
	f.prompts = append(f.prompts, systemPrompt)
	f.messages = append(f.messages, userMessage)
	return f.reply, f.err
}

func (f *fakeInvoker) Available() bool { return f.available }

func newOrchestrator(runner *fakeRunner, invoker *fakeInvoker, input string) (*Orchestrator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Orchestrator{
		Runner:    runner,
		Invoker:   invoker,
		Prompter:  terminal.NewPrompter(strings.NewReader(input), out),
		Checker:   safety.NewChecker(),
		Out:       out,
		FixPrompt: "fix things",
	}, out
}

func TestHandle_PermissionRetryOfferedFirst(t *testing.T) {
	runner := &fakeRunner{results: []execute.Result{{ExitCode: 0}}}
	invoker := &fakeInvoker{available: true}
	// Accept the sudo retry; it succeeds, so no fix offer follows.
	o, out := newOrchestrator(runner, invoker, "y\n")

	failed := execute.Result{ExitCode: 1, Stderr: "cat: /etc/shadow: Permission denied\n"}
	o.Handle("cat /etc/shadow", failed, "/tmp", nil)

	if len(runner.commands) != 1 || runner.commands[0] != "sudo cat /etc/shadow" {
		t.Fatalf("Expected one elevated retry, got %v", runner.commands)
	}
	if len(invoker.messages) != 0 {
		t.Error("Expected no AI call when the retry succeeds")
	}
	if !strings.Contains(out.String(), "sudo") {
		t.Errorf("Expected sudo offer shown, got %q", out.String())
	}
}

func TestHandle_PermissionSignalDeclinedFallsThroughToFixOffer(t *testing.T) {
	runner := &fakeRunner{}
	invoker := &fakeInvoker{available: true, reply: "You lack access.\n\nsudo chmod +r file"}
	// Decline sudo, then decline the fix offer.
	o, out := newOrchestrator(runner, invoker, "n\n\n")

	failed := execute.Result{ExitCode: 1, Stderr: "Permission denied"}
	o.Handle("touch /root/x", failed, "/tmp", nil)

	if len(runner.commands) != 0 {
		t.Errorf("Expected no commands run, got %v", runner.commands)
	}
	if !strings.Contains(out.String(), "exit 1") {
		t.Errorf("Expected exit summary after declined elevation, got %q", out.String())
	}
}

func TestHandle_AlreadyElevatedSkipsPermissionOffer(t *testing.T) {
	runner := &fakeRunner{}
	invoker := &fakeInvoker{available: true}
	// Decline the fix offer.
	o, out := newOrchestrator(runner, invoker, "\n")

	failed := execute.Result{ExitCode: 1, Stderr: "Permission denied"}
	o.Handle("sudo rm /protected", failed, "/tmp", nil)

	if strings.Contains(out.String(), "retry with") {
		t.Errorf("Expected no sudo offer for an already elevated command, got %q", out.String())
	}
	if len(runner.commands) != 0 {
		t.Errorf("Expected nothing run, got %v", runner.commands)
	}
}

func TestHandle_FixAcceptedRunsSuggestion(t *testing.T) {
	runner := &fakeRunner{results: []execute.Result{{ExitCode: 0}}}
	invoker := &fakeInvoker{available: true, reply: "The directory is missing.\n\nmkdir -p /tmp/out"}
	// Press f for help, then enter to run the suggestion.
	o, out := newOrchestrator(runner, invoker, "f\n\n")

	var recorded []string
	o.OnRun = func(command string, result execute.Result, aiGenerated bool) {
		if !aiGenerated {
			t.Error("Expected suggestion marked as AI-generated")
		}
		recorded = append(recorded, command)
	}

	failed := execute.Result{ExitCode: 2, Stderr: "no such file or directory"}
	o.Handle("cp a /tmp/out/", failed, "/tmp", nil)

	if len(runner.commands) != 1 || runner.commands[0] != "mkdir -p /tmp/out" {
		t.Fatalf("Expected suggested command run, got %v", runner.commands)
	}
	if len(recorded) != 1 {
		t.Errorf("Expected OnRun callback, got %v", recorded)
	}
	if !strings.Contains(out.String(), "The directory is missing.") {
		t.Errorf("Expected explanation shown, got %q", out.String())
	}
	if len(invoker.messages) != 1 || !strings.Contains(invoker.messages[0], "Exit code: 2") {
		t.Errorf("Expected failure context sent to the invoker, got %v", invoker.messages)
	}
}

func TestHandle_FailedSuggestionIsTerminal(t *testing.T) {
	// The suggested fix itself fails; the flow must not re-enter.
	runner := &fakeRunner{results: []execute.Result{{ExitCode: 1, Stderr: "still broken"}}}
	invoker := &fakeInvoker{available: true, reply: "Try again.\n\nmake build"}
	o, _ := newOrchestrator(runner, invoker, "f\n\n")

	o.Handle("make", execute.Result{ExitCode: 2, Stderr: "error"}, "/tmp", nil)

	if len(runner.commands) != 1 {
		t.Errorf("Expected exactly one run (no recursion), got %v", runner.commands)
	}
	if len(invoker.messages) != 1 {
		t.Errorf("Expected exactly one AI call, got %d", len(invoker.messages))
	}
}

func TestHandle_ExplanationOnlyReply(t *testing.T) {
	runner := &fakeRunner{}
	invoker := &fakeInvoker{available: true, reply: "This binary does not support that flag."}
	o, out := newOrchestrator(runner, invoker, "f\n")

	o.Handle("tool --bad", execute.Result{ExitCode: 64, Stderr: "unknown flag"}, "/tmp", nil)

	if len(runner.commands) != 0 {
		t.Errorf("Expected nothing run without a suggested command, got %v", runner.commands)
	}
	if !strings.Contains(out.String(), "does not support") {
		t.Errorf("Expected explanation shown, got %q", out.String())
	}
}

func TestHandle_ElevatedRetryFailureGetsOneFixOffer(t *testing.T) {
	runner := &fakeRunner{results: []execute.Result{
		{ExitCode: 1, Stderr: "still Permission denied"},
		{ExitCode: 0},
	}}
	invoker := &fakeInvoker{available: true, reply: "Wrong owner.\n\nsudo chown me file"}
	// Accept sudo retry (fails), press f, run the suggestion.
	o, _ := newOrchestrator(runner, invoker, "y\nf\n\n")

	failed := execute.Result{ExitCode: 1, Stderr: "Permission denied"}
	o.Handle("touch file", failed, "/tmp", nil)

	if len(runner.commands) != 2 {
		t.Fatalf("Expected retry plus one suggestion, got %v", runner.commands)
	}
	if runner.commands[0] != "sudo touch file" {
		t.Errorf("Expected elevated retry first, got %q", runner.commands[0])
	}
	if runner.commands[1] != "sudo chown me file" {
		t.Errorf("Expected suggestion second, got %q", runner.commands[1])
	}
}

func TestHandle_InvokerFailureDegrades(t *testing.T) {
	runner := &fakeRunner{}
	invoker := &fakeInvoker{available: true, err: errors.New("transport down")}
	o, out := newOrchestrator(runner, invoker, "f\n")

	o.Handle("ls /none", execute.Result{ExitCode: 2, Stderr: "no such"}, "/tmp", nil)

	if !strings.Contains(out.String(), "couldn't analyze") {
		t.Errorf("Expected degradation notice, got %q", out.String())
	}
	if len(runner.commands) != 0 {
		t.Errorf("Expected nothing run, got %v", runner.commands)
	}
}

func TestHandle_DangerousSuggestionNeedsExplicitYes(t *testing.T) {
	runner := &fakeRunner{}
	invoker := &fakeInvoker{available: true, reply: "Stale build dir.\n\nrm -rf /"}
	// Press f, then hit enter: the default-run shortcut must NOT apply to
	// a dangerous suggestion.
	o, out := newOrchestrator(runner, invoker, "f\n\n")

	o.Handle("make", execute.Result{ExitCode: 1, Stderr: "clutter"}, "/tmp", nil)

	if len(runner.commands) != 0 {
		t.Errorf("Expected dangerous suggestion not run on default, got %v", runner.commands)
	}
	if !strings.Contains(out.String(), "destructive") {
		t.Errorf("Expected destructive warning, got %q", out.String())
	}
}
