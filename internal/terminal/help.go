package terminal

import (
	"fmt"
	"io"
)

// PrintWelcome writes the interactive banner.
func PrintWelcome(w io.Writer) {
	fmt.Fprintf(w, "\n  %s - AI-powered shell\n", styleBold.Render("aish"))
	fmt.Fprintln(w, Dimf("  type commands normally, or just say what you want in plain English"))
	fmt.Fprintf(w, "  %s help %s\n\n", Dimf("type"), Dimf("for more info"))
}

// PrintHelp writes the usage screen.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `
  %s - AI-powered Unix shell

  %s
    any command           run it directly via the shell
    plain english         AI generates a command, you confirm
    ! command             force shell execution (bypass heuristic)
    ? command             explain what a command does
    ?? question           ask the AI anything

  %s
    sudo auto-detect      permission errors offer a sudo retry
    press f               AI error diagnosis and a suggested fix

  %s
    enter                 run it
    e                     edit before running
    s / anything else     skip

  %s
    cd [dir]              change directory (cd - for previous)
    export KEY=VALUE      set environment variable
    unset VAR             remove environment variable
    source file           run commands from a file
    history               show command history
    exit / quit           exit the shell
    help                  this message

  %s
    aish                  interactive shell
    aish -c "cmd"         execute a command and exit
    aish script.sh        run a script file
    echo "cmd" | aish     read commands from stdin
    aish -l               login shell (sources profile)

  %s  ~/.aish/
    config.yaml           shell, AI provider and behavior settings
    personality           customize the AI personality
    prompts/*.txt         override the AI system prompts
    aishrc                startup commands (like .bashrc)
    history               command history

`,
		styleBold.Render("aish"),
		styleBold.Render("Usage:"),
		styleBold.Render("When a command fails:"),
		styleBold.Render("After AI generates a command:"),
		styleBold.Render("Builtins:"),
		styleBold.Render("Shell modes:"),
		styleBold.Render("Configuration:"),
	)
}
