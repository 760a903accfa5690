package ai

import "context"

// Completer is the capability boundary to a language model: given a grading
// prompt, return the raw text completion. Implementations must be safe to
// call sequentially; the grading pipeline never issues overlapping requests.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	ModelName() string
}
