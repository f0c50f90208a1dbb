package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aish/internal/ai"
	"aish/internal/ai/claude"
	"aish/internal/ai/openai"
	"aish/internal/prompt"
	"aish/internal/shell"
	"aish/internal/storage"
	"aish/internal/terminal"
)

var (
	flagCommand    string
	flagLogin      bool
	flagUnattended bool
)

var rootCmd = &cobra.Command{
	Use:   "aish [script]",
	Short: "AI-assisted interactive shell",
	Long: `aish - an interactive shell that runs commands the usual way and hands
everything else to an AI assistant: plain English becomes commands,
? explains, ?? answers, and failed commands get fix suggestions.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Exit(run(args))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagCommand, "command", "c", "", "run a single command and exit")
	rootCmd.Flags().BoolVarP(&flagLogin, "login", "l", false, "act as a login shell")
	rootCmd.Flags().BoolVar(&flagUnattended, "unattended", false, "run AI-generated commands without confirmation")
}

func run(args []string) int {
	configDir, err := storage.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "aish: %v\n", err)
		return 1
	}

	cfg, err := storage.LoadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aish: %v\n", err)
		return 1
	}
	if flagUnattended {
		cfg.Behavior.Unattended = true
	}

	if err := prompt.EnsureDefaults(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "aish: %v\n", err)
	}
	prompts := prompt.Load(configDir)

	interactive := flagCommand == "" && len(args) == 0 &&
		term.IsTerminal(int(os.Stdin.Fd()))

	s := shell.New(cfg, prompts, newInvoker(cfg), interactive)

	if interactive {
		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
		if r, err := terminal.NewRenderer(width); err == nil {
			s.Renderer = r
		}
		if cfg.Behavior.SaveSessions {
			s.Transcript = storage.NewSession(filepath.Join(configDir, storage.SessionDirName))
		}
	}

	// A leading dash in argv[0] means the system started us as a login
	// shell, same as the -l flag.
	if flagLogin || (len(os.Args) > 0 && strings.HasPrefix(os.Args[0], "-")) {
		s.SourceProfile()
	}
	if exe, err := os.Executable(); err == nil {
		s.Ctx.Env["SHELL"] = exe
	}

	switch {
	case flagCommand != "":
		return s.RunCommand(flagCommand)
	case len(args) == 1:
		return s.RunScript(args[0])
	case interactive:
		return s.RunInteractive(os.Stdin)
	default:
		return s.RunPiped(os.Stdin)
	}
}

// newInvoker picks the assistant backend from configuration.
func newInvoker(cfg *storage.Config) ai.Invoker {
	switch cfg.AI.Provider {
	case "openai":
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL,
			time.Duration(cfg.AI.Timeout)*time.Second)
	default:
		return claude.NewClient(cfg.AI.Command)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "aish: %v\n", err)
		os.Exit(2)
	}
}
