package ai

import (
	_ "embed"
	"fmt"
)

//go:embed prompts/recommend.md
var recommendPrompt string

//go:embed prompts/tailor.md
var tailorPrompt string

// SystemPrompt returns the fixed system prompt for mode. An empty mode selects
// the recommend prompt.
func SystemPrompt(mode Mode) (string, error) {
	switch mode {
	case ModeRecommend, "":
		return recommendPrompt, nil
	case ModeTailor:
		return tailorPrompt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}

// UserMessage joins the job description and resume under their fixed labels.
func UserMessage(jobDescription, resume string) string {
	return "Job Description:\n" + jobDescription + "\n\nMy Resume:\n" + resume
}

// BuildRequest assembles the system prompt and user message for one call.
func BuildRequest(jobDescription, resume string, mode Mode) (CompletionRequest, error) {
	system, err := SystemPrompt(mode)
	if err != nil {
		return CompletionRequest{}, err
	}
	return CompletionRequest{
		SystemPrompt: system,
		UserMessage:  UserMessage(jobDescription, resume),
	}, nil
}
