package terminal

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatPrompt builds the interactive prompt line: the working directory
// abbreviated against home, the last exit code when non-zero, and a # sigil
// for root.
func FormatPrompt(cwd, home string, isRoot bool, lastExit int) string {
	display := cwd
	if home != "" {
		if rel, err := filepath.Rel(home, cwd); err == nil && !strings.HasPrefix(rel, "..") {
			if rel == "." {
				display = "~"
			} else {
				display = "~/" + rel
			}
		}
	}

	sigil := ">"
	if isRoot {
		sigil = "#"
	}

	status := ""
	if lastExit != 0 {
		status = " " + styleError.Render(fmt.Sprintf("[%d]", lastExit))
	}

	return stylePath.Render(display) + status + " " + styleAccent.Render(sigil) + " "
}
