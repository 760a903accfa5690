package ai

import (
	"context"

	"github.com/rs/zerolog"
)

// Fallback decorates a completer so that backend-level failures degrade to
// the deterministic mock reply instead of propagating. The grading pipeline
// then still produces one result per response; the lowered confidence of the
// mock reply is what surfaces the substitution.
type Fallback struct {
	inner  Completer
	mock   Mock
	logger zerolog.Logger
}

// NewFallback wraps the given completer with mock degradation.
func NewFallback(inner Completer, logger zerolog.Logger) *Fallback {
	return &Fallback{
		inner:  inner,
		logger: logger.With().Str("component", "ai_fallback").Logger(),
	}
}

// Complete tries the wrapped backend first and falls back to the mock reply
// on error.
func (f *Fallback) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reply, err := f.inner.Complete(ctx, prompt, maxTokens)
	if err == nil {
		return reply, nil
	}

	f.logger.Warn().Err(err).Str("model", f.inner.ModelName()).Msg("backend failed, using mock completion")
	return f.mock.Complete(ctx, prompt, maxTokens)
}

// ModelName reports the wrapped backend's model name.
func (f *Fallback) ModelName() string {
	return f.inner.ModelName()
}
