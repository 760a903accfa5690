package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToMock(t *testing.T) {
	require.IsType(t, Mock{}, New(Config{Logger: zerolog.Nop()}))
	require.IsType(t, Mock{}, New(Config{Provider: ProviderMock, Logger: zerolog.Nop()}))
	require.IsType(t, Mock{}, New(Config{Provider: "gemini", Logger: zerolog.Nop()}))
}

func TestNewOpenAIWithoutKeyDegradesToMock(t *testing.T) {
	require.IsType(t, Mock{}, New(Config{Provider: ProviderOpenAI, Logger: zerolog.Nop()}))
	require.IsType(t, Mock{}, New(Config{Provider: ProviderOpenAI, APIKey: "not-a-key", Logger: zerolog.Nop()}))
}

func TestNewOpenAIWithKeyWrapsInFallback(t *testing.T) {
	completer := New(Config{Provider: ProviderOpenAI, APIKey: "sk-test-123", Model: "gpt-4o-mini", Logger: zerolog.Nop()})
	require.IsType(t, &Fallback{}, completer)
	require.Equal(t, "openai-gpt-4o-mini", completer.ModelName())
}

func TestNewProviderIsCaseInsensitive(t *testing.T) {
	require.IsType(t, Mock{}, New(Config{Provider: "MOCK", Logger: zerolog.Nop()}))
	require.IsType(t, &Fallback{}, New(Config{Provider: "OpenAI", APIKey: "sk-test-123", Logger: zerolog.Nop()}))
}

func TestNewAnthropicWithoutKeyDegradesToMock(t *testing.T) {
	require.IsType(t, Mock{}, New(Config{Provider: ProviderAnthropic, Logger: zerolog.Nop()}))
}

func TestMockCompletionIsValidGradingJSON(t *testing.T) {
	reply, err := Mock{}.Complete(context.Background(), "any prompt", 100)
	require.NoError(t, err)

	var payload struct {
		Scores     map[string]float64 `json:"scores"`
		TotalScore float64            `json:"total_score"`
		Confidence float64            `json:"confidence"`
		Feedback   string             `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal([]byte(reply), &payload))
	require.Equal(t, 24.0, payload.TotalScore)
	require.Equal(t, 0.85, payload.Confidence)
	require.NotEmpty(t, payload.Feedback)
	require.Len(t, payload.Scores, 3)

	// Deterministic across calls.
	again, err := Mock{}.Complete(context.Background(), "different prompt", 5)
	require.NoError(t, err)
	require.Equal(t, reply, again)
}

type failingCompleter struct{ err error }

func (f failingCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "", f.err
}

func (failingCompleter) ModelName() string { return "failing-model" }

func TestFallbackDegradesToMockReply(t *testing.T) {
	fb := NewFallback(failingCompleter{err: fmt.Errorf("timeout")}, zerolog.Nop())

	reply, err := fb.Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	require.Equal(t, mockCompletion, reply)
	require.Equal(t, "failing-model", fb.ModelName())
}

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "echo", nil
}

func (echoCompleter) ModelName() string { return "echo-model" }

func TestFallbackPassesThroughSuccess(t *testing.T) {
	fb := NewFallback(echoCompleter{}, zerolog.Nop())

	reply, err := fb.Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	require.Equal(t, "echo", reply)
}
