package ai

import "strings"

// StripCodeFences removes a surrounding markdown code fence from a reply.
// Replies without a fence are returned trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Longest prefix first so "```shell" is not half-eaten by "```sh".
	for _, lang := range []string{"```shell", "```bash", "```sh", "```"} {
		if rest, ok := strings.CutPrefix(s, lang); ok {
			s = rest
			break
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// SplitFix splits a fix reply into an explanation and a suggested command
// at the first blank-line boundary. When no boundary exists the whole reply
// is the explanation and no command is offered.
func SplitFix(reply string) (explanation, command string) {
	parts := strings.SplitN(reply, "\n\n", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(reply), ""
}
