package main

import (
	"context"
	"io"

	"github.com/richhaase/let-claude-code/internal/reasoning"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

// spinnerReasoner shows a waiting spinner around non-streaming requests.
type spinnerReasoner struct {
	reasoning.Client
	out   io.Writer
	isTTY bool
}

func (s spinnerReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	var text string
	sp := terminal.NewPhaseSpinnerTo(s.out, s.isTTY, logTag, "Waiting for "+s.Model())
	err := sp.Wrap(ctx, func() error {
		var err error
		text, err = s.Client.Complete(ctx, prompt)
		return err
	})
	return text, err
}

// withProgress returns client unchanged for streaming models, which print
// their own progress, and wraps the rest in a spinner.
func withProgress(client reasoning.Client, out io.Writer, isTTY bool) reasoning.Client {
	if reasoning.Provider(client.Model()) == reasoning.ProviderOpenAIResponses {
		return client
	}
	return spinnerReasoner{Client: client, out: out, isTTY: isTTY}
}
