// Package safety gates AI-generated commands. Commands the user typed are
// never checked here: the user's own input is authoritative.
package safety

import "strings"

// Checker detects commands that must be confirmed even in unattended mode.
type Checker struct {
	dangerousCommands []string
	dangerousPatterns []string
}

// NewChecker creates a checker with the built-in lists.
func NewChecker() *Checker {
	return &Checker{
		dangerousCommands: []string{
			"rm", "rmdir", "dd", "mkfs", "format",
			"chmod", "chown", "userdel", "groupdel", "fdisk",
			"shutdown", "reboot", "halt",
		},
		dangerousPatterns: []string{
			"rm -rf /",
			"rm -rf ~",
			"> /dev/sd",
			"chmod 777 /",
			":(){",
			"> /etc/",
		},
	}
}

// IsDangerous reports whether a generated command string needs explicit
// confirmation. The leading token is checked against the command list
// (skipping a sudo prefix), the whole string against the pattern list.
func (c *Checker) IsDangerous(command string) bool {
	fields := strings.Fields(command)
	if len(fields) > 0 && fields[0] == "sudo" {
		fields = fields[1:]
	}
	if len(fields) > 0 {
		for _, dangerous := range c.dangerousCommands {
			if fields[0] == dangerous || strings.HasPrefix(fields[0], dangerous+".") {
				return true
			}
		}
	}

	for _, pattern := range c.dangerousPatterns {
		if strings.Contains(command, pattern) {
			return true
		}
	}
	return false
}
