package reasoning

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const maxOutputTokens = 16384

func openAIOptions(opts Options) []option.RequestOption {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return reqOpts
}

// openAIResponses streams from the Responses API. Used for gpt-5 models.
type openAIResponses struct {
	client   openai.Client
	model    string
	effort   string
	progress io.Writer
}

func newOpenAIResponses(opts Options) *openAIResponses {
	return &openAIResponses{
		client:   openai.NewClient(openAIOptions(opts)...),
		model:    opts.Model,
		effort:   opts.Effort,
		progress: opts.Progress,
	}
}

func (c *openAIResponses) Model() string { return c.model }

func (c *openAIResponses) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, responsesTimeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Reasoning: shared.ReasoningParam{
			Effort: shared.ReasoningEffort(c.effort),
		},
		MaxOutputTokens: openai.Int(maxOutputTokens),
	}

	stream := c.client.Responses.NewStreaming(ctx, params, option.WithJSONSet("text.verbosity", "medium"))
	defer stream.Close()

	var acc Accumulator
	for stream.Next() {
		before := acc.Chunks()
		done := acc.Add(stream.Current().RawJSON())
		if c.progress != nil && acc.Chunks() > before {
			fmt.Fprint(c.progress, ".")
		}
		if done {
			break
		}
	}
	if c.progress != nil && acc.Chunks() > 0 {
		fmt.Fprintln(c.progress)
	}

	text, ok := acc.Text()
	if err := stream.Err(); err != nil {
		if !ok {
			return "", fmt.Errorf("failed to stream response from %s: %w", c.model, err)
		}
		clog.FromContext(ctx).With("model", c.model).Warnf("stream ended early, using partial output: %v", err)
	}
	if !ok || strings.TrimSpace(text) == "" {
		return "", ErrNoOutput
	}
	return text, nil
}

// openAIChat uses Chat Completions. Used for every other OpenAI model.
type openAIChat struct {
	client openai.Client
	model  string
}

func newOpenAIChat(opts Options) *openAIChat {
	return &openAIChat{
		client: openai.NewClient(openAIOptions(opts)...),
		model:  opts.Model,
	}
}

func (c *openAIChat) Model() string { return c.model }

func (c *openAIChat) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get completion from %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrNoOutput
	}
	return resp.Choices[0].Message.Content, nil
}
