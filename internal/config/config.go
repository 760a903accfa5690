package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the grading pipeline.
type Config struct {
	AppEnv              string
	Provider            string  `validate:"oneof=mock openai anthropic"`
	Model               string
	OpenAIAPIKey        string
	AnthropicAPIKey     string
	MaxTokens           int     `validate:"gt=0"`
	Temperature         float32 `validate:"gte=0,lte=2"`
	RubricsDir          string  `validate:"required"`
	OutputDir           string  `validate:"required"`
	ConfidenceThreshold float64 `validate:"gt=0,lte=1"`
	VarianceThreshold   float64 `validate:"gt=0"`
	InterRunPause       time.Duration
	MaxSuggestions      int `validate:"gt=0"`
}

// APIKeyFor returns the credential for the given provider, empty when none
// is configured.
func (c Config) APIKeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	}
	return ""
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NBGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.env", "development")
	v.SetDefault("ai.provider", "mock")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 1500)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("rubrics.dir", "rubrics")
	v.SetDefault("output.dir", "ai_grading_results")
	v.SetDefault("grading.confidence_threshold", 0.7)
	v.SetDefault("grading.variance_threshold", 15.0)
	v.SetDefault("grading.inter_run_pause_ms", 1000)
	v.SetDefault("grading.max_suggestions", 5)

	pauseMs := v.GetInt("grading.inter_run_pause_ms")
	if pauseMs < 0 {
		pauseMs = 0
	}

	cfg := Config{
		AppEnv:              v.GetString("app.env"),
		Provider:            strings.ToLower(v.GetString("ai.provider")),
		Model:               v.GetString("ai.model"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AnthropicAPIKey:     v.GetString("anthropic_api_key"),
		MaxTokens:           v.GetInt("ai.max_tokens"),
		Temperature:         float32(v.GetFloat64("ai.temperature")),
		RubricsDir:          v.GetString("rubrics.dir"),
		OutputDir:           v.GetString("output.dir"),
		ConfidenceThreshold: v.GetFloat64("grading.confidence_threshold"),
		VarianceThreshold:   v.GetFloat64("grading.variance_threshold"),
		InterRunPause:       time.Duration(pauseMs) * time.Millisecond,
		MaxSuggestions:      v.GetInt("grading.max_suggestions"),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
