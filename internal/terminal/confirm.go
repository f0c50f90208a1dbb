package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads single-line confirmations from the controlling terminal.
// Input and output are injectable for testing.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and prompting on out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ReadLine prints the question and reads one trimmed, lowercased line. EOF
// returns the empty string.
func (p *Prompter) ReadLine(question string) string {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(line))
}

// ConfirmYes asks a yes/no question defaulting to no.
func (p *Prompter) ConfirmYes(question string) bool {
	answer := p.ReadLine(question)
	return answer == "y" || answer == "yes"
}

// ConfirmRun asks whether to run a suggested command; an empty answer means
// run (the default action).
func (p *Prompter) ConfirmRun(question string) bool {
	switch p.ReadLine(question) {
	case "", "r", "run", "y", "yes":
		return true
	}
	return false
}
