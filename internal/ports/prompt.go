package ports

import "context"

// Prompter requests a single free-text value from the operator.
//
// Implementations display the prompt, read one line, and return it with
// surrounding whitespace trimmed. An empty answer is returned as-is; the
// caller decides whether that is acceptable.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
