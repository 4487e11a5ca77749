package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/richhaase/let-claude-code/internal/reasoning"
)

// Env holds the settings read from environment variables. Pointer fields
// stay nil when the variable is unset.
type Env struct {
	TelegramToken  string `env:"TG_BOT_TOKEN"`
	TelegramChatID string `env:"TG_CHAT_ID"`

	BaseBranch    *string `env:"AUTOREVIEW_BASE_BRANCH,noinit"`
	MaxIterations *int    `env:"AUTOREVIEW_MAX_ITERATIONS,noinit"`
	Agent         *string `env:"AUTOREVIEW_AGENT,noinit"`
	Forge         *string `env:"AUTOREVIEW_FORGE,noinit"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
	GeminiKey     string `env:"GEMINI_API_KEY"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv(ctx context.Context) (Env, error) {
	return LoadEnvFrom(ctx, envconfig.OsLookuper())
}

// LoadEnvFrom reads Env through l.
func LoadEnvFrom(ctx context.Context, l envconfig.Lookuper) (Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// Validate checks the values that have a restricted domain.
func (e Env) Validate() error {
	if e.MaxIterations != nil && *e.MaxIterations < 1 {
		return fmt.Errorf("AUTOREVIEW_MAX_ITERATIONS must be >= 1, got %d", *e.MaxIterations)
	}
	if e.Agent != nil {
		if err := validateAgent(*e.Agent, "AUTOREVIEW_AGENT"); err != nil {
			return err
		}
	}
	if e.Forge != nil {
		if err := validateForge(*e.Forge, "AUTOREVIEW_FORGE"); err != nil {
			return err
		}
	}
	return nil
}

// APIKey returns the reasoning API key for model.
func (e Env) APIKey(model string) (string, error) {
	var key string
	switch reasoning.Provider(model) {
	case reasoning.ProviderAnthropic:
		key = e.AnthropicKey
	case reasoning.ProviderGemini:
		key = e.GeminiKey
	default:
		key = e.OpenAIKey
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s environment variable not set", ErrMissingCredential, reasoning.KeyEnv(model))
	}
	return key, nil
}

// BaseURL returns the endpoint override for model, if any.
func (e Env) BaseURL(model string) string {
	switch reasoning.Provider(model) {
	case reasoning.ProviderOpenAIResponses, reasoning.ProviderOpenAIChat:
		return e.OpenAIBaseURL
	default:
		return ""
	}
}
