// Package classify decides how a single line of input should be handled:
// as a shell command, a builtin, or natural language for the AI.
package classify

import (
	"strconv"
	"strings"
)

// Kind identifies the handling path for a line of input.
type Kind int

const (
	KindExit Kind = iota
	KindComment
	KindHelp
	KindChangeDir
	KindExport
	KindUnset
	KindSource
	KindHistory
	KindForceShell
	KindExplain
	KindAsk
	KindShellCommand
	KindNaturalLanguage
)

// Input is the classified form of one input line.
type Input struct {
	Kind Kind
	// Arg carries the payload: the command for shell kinds, the directory
	// for cd, the assignment for export, and so on.
	Arg string
	// Code is the requested exit status for "exit N". Nil means reuse the
	// previous command's status.
	Code *int
}

// shellBuiltins are words the underlying shell understands even though no
// executable with that name exists on PATH.
var shellBuiltins = map[string]bool{
	"cd": true, "exit": true, "quit": true, "export": true, "unset": true,
	"source": true, "history": true, "help": true, "alias": true, "unalias": true,
	"set": true, "shopt": true, "type": true, "hash": true, "ulimit": true,
	"umask": true, "wait": true, "jobs": true, "fg": true, "bg": true,
	"disown": true, "builtin": true, "command": true, "declare": true,
	"local": true, "readonly": true, "typeset": true, "let": true, "eval": true,
	"exec": true, "trap": true, "return": true, "shift": true, "getopts": true,
	"read": true, "mapfile": true, "readarray": true, "printf": true,
	"echo": true, "test": true, "true": true, "false": true, "for": true,
	"while": true, "if": true, "case": true, "select": true, "until": true,
	"do": true, "done": true, "then": true, "else": true, "elif": true,
	"fi": true, "esac": true, "in": true,
}

// commandPrefixes are wrapper keywords that always introduce a command.
var commandPrefixes = []string{
	"sudo ", "env ", "nohup ", "time ", "nice ", "strace ", "watch ", "xargs ",
}

// Classify maps one trimmed input line to its handling path. It is a pure
// function of the line and the PATH snapshot; rule order is significant and
// earlier rules win.
func Classify(line string, commands PathCommandSet) Input {
	if strings.HasPrefix(line, "#") {
		return Input{Kind: KindComment}
	}

	if line == "exit" || line == "quit" || line == "logout" {
		return Input{Kind: KindExit}
	}
	if arg, ok := strings.CutPrefix(line, "exit "); ok {
		if code, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
			return Input{Kind: KindExit, Code: &code}
		}
		return Input{Kind: KindExit}
	}

	if line == "help" {
		return Input{Kind: KindHelp}
	}
	if line == "history" {
		return Input{Kind: KindHistory}
	}

	// ! prefix forces shell execution, bypassing every later rule.
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return Input{Kind: KindForceShell, Arg: rest}
		}
	}

	// ?? must be checked before single ?.
	if rest, ok := strings.CutPrefix(line, "??"); ok {
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return Input{Kind: KindAsk, Arg: rest}
		}
	}
	if rest, ok := strings.CutPrefix(line, "?"); ok {
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return Input{Kind: KindExplain, Arg: rest}
		}
	}

	if line == "cd" || line == "cd " {
		return Input{Kind: KindChangeDir}
	}
	if dir, ok := strings.CutPrefix(line, "cd "); ok {
		return Input{Kind: KindChangeDir, Arg: strings.TrimSpace(dir)}
	}

	if assignment, ok := strings.CutPrefix(line, "export "); ok {
		return Input{Kind: KindExport, Arg: strings.TrimSpace(assignment)}
	}
	if name, ok := strings.CutPrefix(line, "unset "); ok {
		return Input{Kind: KindUnset, Arg: strings.TrimSpace(name)}
	}
	if path, ok := strings.CutPrefix(line, "source "); ok {
		return Input{Kind: KindSource, Arg: strings.TrimSpace(path)}
	}
	if path, ok := strings.CutPrefix(line, ". "); ok {
		return Input{Kind: KindSource, Arg: strings.TrimSpace(path)}
	}

	if looksLikeShellCommand(line, commands) {
		return Input{Kind: KindShellCommand, Arg: line}
	}
	return Input{Kind: KindNaturalLanguage, Arg: line}
}

// looksLikeShellCommand runs the shell-likeness test. Each check
// short-circuits true on first match; a token that is both an executable
// name and a plausible English word is always treated as a command.
func looksLikeShellCommand(line string, commands PathCommandSet) bool {
	if line == "" {
		return false
	}

	switch line[0] {
	case '/', '.', '~', '(', '{', '[', '$', '<', '>':
		return true
	}

	// Variable assignment: FOO=bar
	if eq := strings.IndexByte(line, '='); eq > 0 {
		if isAssignmentName(line[:eq]) {
			return true
		}
	}

	for _, prefix := range commandPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	// First token, cut at pipe / semicolon / background operators.
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	first, _, _ = strings.Cut(first, "|")
	first, _, _ = strings.Cut(first, ";")
	first, _, _ = strings.Cut(first, "&")

	if shellBuiltins[first] {
		return true
	}
	if commands.Contains(first) {
		return true
	}
	if strings.Contains(first, "/") {
		return true
	}

	return false
}

func isAssignmentName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
