// Package reasoning sends audit prompts to hosted language model APIs.
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// ErrNoOutput indicates the API answered without any text.
var ErrNoOutput = errors.New("no output from model")

// Providers.
const (
	ProviderOpenAIResponses = "openai-responses"
	ProviderOpenAIChat      = "openai-chat"
	ProviderAnthropic       = "anthropic"
	ProviderGemini          = "gemini"
)

// DefaultModel is the audit model used when none is given.
const DefaultModel = "gpt-5.2"

// DefaultEffort is the default reasoning effort for models that support it.
const DefaultEffort = "high"

// Efforts lists the accepted reasoning effort values.
var Efforts = []string{"none", "low", "medium", "high", "xhigh"}

// Generation limits shared by the non-streaming providers.
const (
	maxTokens   = 4096
	temperature = 0.2
)

// Timeouts per provider.
const (
	responsesTimeout = 600 * time.Second
	requestTimeout   = 120 * time.Second
)

// Client answers a single prompt.
type Client interface {
	// Model returns the model name requests are sent to.
	Model() string
	// Complete sends prompt and returns the model's text answer.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures a Client.
type Options struct {
	Model  string
	Effort string
	APIKey string
	// BaseURL overrides the provider endpoint.
	BaseURL string
	// Progress receives a dot per streamed chunk. Nil disables it.
	Progress io.Writer
}

// Provider returns the API family serving model.
func Provider(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-5"):
		return ProviderOpenAIResponses
	case strings.HasPrefix(model, "claude-"):
		return ProviderAnthropic
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	default:
		return ProviderOpenAIChat
	}
}

// KeyEnv returns the environment variable holding the API key for model.
func KeyEnv(model string) string {
	switch Provider(model) {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ValidEffort reports whether effort is an accepted reasoning effort.
func ValidEffort(effort string) bool {
	return slices.Contains(Efforts, effort)
}

// New returns the client for opts.Model.
func New(ctx context.Context, opts Options) (Client, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Effort == "" {
		opts.Effort = DefaultEffort
	}
	if !ValidEffort(opts.Effort) {
		return nil, fmt.Errorf("invalid reasoning effort %q (valid: %s)", opts.Effort, strings.Join(Efforts, ", "))
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s is not set", KeyEnv(opts.Model))
	}

	switch Provider(opts.Model) {
	case ProviderOpenAIResponses:
		return newOpenAIResponses(opts), nil
	case ProviderAnthropic:
		return newAnthropic(opts), nil
	case ProviderGemini:
		return newGemini(ctx, opts)
	default:
		return newOpenAIChat(opts), nil
	}
}
