package ai

import "context"

// CompletionRequest is the pair of messages sent for one completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
}

// Provider sends a completion request to an LLM and returns the raw text of
// the first choice.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
