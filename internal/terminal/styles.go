// Package terminal renders aish's own output: the prompt line,
// confirmation questions, help text and AI answers. Child-process output
// never passes through here.
package terminal

import "github.com/charmbracelet/lipgloss"

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleAnswer  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	stylePath    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Errorf styles an error message.
func Errorf(s string) string { return styleError.Render(s) }

// Warnf styles a warning message.
func Warnf(s string) string { return styleWarn.Render(s) }

// Dimf styles a de-emphasized message.
func Dimf(s string) string { return styleDim.Render(s) }

// Answerf styles an AI answer shown without markdown rendering.
func Answerf(s string) string { return styleAnswer.Render(s) }

// Commandf styles a generated command.
func Commandf(s string) string { return styleCommand.Render(s) }
