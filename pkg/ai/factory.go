package ai

import (
	"strings"

	"github.com/rs/zerolog"
)

// Supported completer providers.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures a completer backend.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// New returns the completer for the configured provider. Misconfiguration
// (missing or malformed credentials, unknown provider) degrades to the mock
// completer with a warning rather than blocking startup.
func New(cfg Config) Completer {
	logger := cfg.Logger.With().Str("component", "ai_factory").Logger()

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			logger.Warn().Msg("no openai api key provided, using mock completer")
			return Mock{}
		}
		if !strings.HasPrefix(cfg.APIKey, "sk-") {
			logger.Warn().Msg("openai api key has unexpected format, using mock completer")
			return Mock{}
		}
		client, err := NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Logger:      cfg.Logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create openai completer, using mock")
			return Mock{}
		}
		return NewFallback(client, cfg.Logger)

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			logger.Warn().Msg("no anthropic api key provided, using mock completer")
			return Mock{}
		}
		client, err := NewAnthropicClient(AnthropicConfig{APIKey: cfg.APIKey, Model: cfg.Model})
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create anthropic completer, using mock")
			return Mock{}
		}
		return NewFallback(client, cfg.Logger)

	case ProviderMock, "":
		return Mock{}

	default:
		logger.Warn().Str("provider", cfg.Provider).Msg("unknown provider, using mock completer")
		return Mock{}
	}
}
