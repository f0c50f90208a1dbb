// Package ai defines the invoker boundary to the external assistant and the
// post-processing applied to its replies.
package ai

import "context"

// Invoker is the text-in/text-out boundary to the AI assistant.
type Invoker interface {
	// Invoke sends a system prompt and a user message and returns the
	// reply. cwd is included in the context handed to the assistant.
	Invoke(ctx context.Context, systemPrompt, userMessage, cwd string) (string, error)

	// Available reports whether the assistant can be reached at all. It is
	// checked once at session start; when false, natural-language input
	// fails fast without attempting the call.
	Available() bool
}

// BuildSystemPrompt combines a base prompt with an optional personality.
func BuildSystemPrompt(basePrompt, personality string) string {
	if personality == "" {
		return basePrompt
	}
	return basePrompt + "\n\nPersonality: " + personality
}
