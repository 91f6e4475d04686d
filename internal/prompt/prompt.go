// Package prompt asks the user for choices and text.
//
// Cancelling a prompt is never an error: Choose and Input report it with a
// false result so callers can stop without touching state.
package prompt

import "context"

// Prompter is the interaction surface the flows run against.
type Prompter interface {
	// Choose shows options and returns the one picked.
	Choose(ctx context.Context, title, message string, options []string) (string, bool)
	// Input asks for one line of text. The answer is trimmed and an empty
	// answer counts as cancelled.
	Input(ctx context.Context, title, placeholder string) (string, bool)
	// Notify shows a message that only needs acknowledging.
	Notify(ctx context.Context, title, message string)
}
