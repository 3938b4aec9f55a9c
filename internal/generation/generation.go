// Package generation abstracts the chat-completion backend used to produce
// chapter descriptions and other narrative text. The store and projection
// never talk to a model; only the commands that explicitly generate do.
package generation

import "context"

// Role identifies who authored a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a generation prompt.
type Message struct {
	Role    Role
	Content string
}

// Settings tunes a single generation call. Zero values fall back to the
// backend's defaults.
type Settings struct {
	MaxTokens   int
	Temperature float32
}

// Generator produces a completion for a prompt. Implementations must honor
// ctx cancellation and return the context error unwrapped so callers can
// distinguish an abort from a backend failure.
type Generator interface {
	Generate(ctx context.Context, messages []Message, settings Settings) (string, error)
}
