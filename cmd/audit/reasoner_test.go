package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	model string
	text  string
	err   error
	calls int
}

func (s *stubClient) Model() string { return s.model }

func (s *stubClient) Complete(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestWithProgress_StreamingModelUnwrapped(t *testing.T) {
	c := &stubClient{model: "gpt-5.2"}
	if got := withProgress(c, &bytes.Buffer{}, true); got != c {
		t.Errorf("streaming client should be returned unchanged, got %T", got)
	}
}

func TestWithProgress_SpinnerWrapsRequest(t *testing.T) {
	tests := []struct {
		name  string
		model string
		text  string
		err   error
	}{
		{"chat success", "gpt-4o", "ISSUES_FOUND: NO", nil},
		{"anthropic failure", "claude-sonnet-4-5", "", errors.New("overloaded")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubClient{model: tt.model, text: tt.text, err: tt.err}
			var buf bytes.Buffer
			wrapped := withProgress(c, &buf, false)

			if _, ok := wrapped.(spinnerReasoner); !ok {
				t.Fatalf("withProgress returned %T, want spinnerReasoner", wrapped)
			}
			if wrapped.Model() != tt.model {
				t.Errorf("Model() = %q", wrapped.Model())
			}

			text, err := wrapped.Complete(context.Background(), "prompt")
			if !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
			if text != tt.text {
				t.Errorf("text = %q, want %q", text, tt.text)
			}
			if c.calls != 1 {
				t.Errorf("calls = %d, want 1", c.calls)
			}
			if buf.Len() != 0 {
				t.Errorf("spinner drew on a non-terminal: %q", buf.String())
			}
		})
	}
}
