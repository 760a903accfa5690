package ai

import (
	"context"
	"fmt"
)

// AnthropicConfig placeholder for anthropic integration configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// AnthropicClient is a stub implementation that can be expanded once the SDK
// is available. The factory wraps it in a mock fallback, so selecting the
// anthropic provider still yields deterministic results.
type AnthropicClient struct {
	cfg AnthropicConfig
}

// NewAnthropicClient constructs a new stub completer.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	return &AnthropicClient{cfg: cfg}, nil
}

// Complete is not yet implemented for Anthropic models.
func (a *AnthropicClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "", fmt.Errorf("anthropic completer not implemented")
}

// ModelName identifies the backing model.
func (a *AnthropicClient) ModelName() string {
	return fmt.Sprintf("anthropic-%s", a.cfg.Model)
}
