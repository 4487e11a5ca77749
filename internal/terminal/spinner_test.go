package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPhaseSpinner_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	s := NewPhaseSpinnerTo(&buf, false, "audit", "Testing")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("phase spinner did not exit")
	}
	if buf.Len() != 0 {
		t.Errorf("non-TTY spinner wrote %q", buf.String())
	}
}

func TestPhaseSpinner_TTYFinalLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewPhaseSpinnerTo(&buf, true, "audit", "Waiting for gpt-4o")

	WithColorsDisabled(func() {
		err := s.Wrap(context.Background(), func() error {
			time.Sleep(2 * spinnerInterval)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	out := buf.String()
	if !strings.Contains(out, "[audit] ✓ Waiting for gpt-4o (") {
		t.Errorf("missing final line: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("final line should end with a newline")
	}
}

func TestPhaseSpinner_WrapReturnsError(t *testing.T) {
	s := NewPhaseSpinnerTo(&bytes.Buffer{}, false, "audit", "x")
	want := errors.New("boom")
	if err := s.Wrap(context.Background(), func() error { return want }); err != want {
		t.Errorf("Wrap() = %v, want %v", err, want)
	}
}

func TestNewPhaseSpinner(t *testing.T) {
	s := NewPhaseSpinner("autoreview", "Reviewing")
	if s.label != "Reviewing" || s.tag != "autoreview" {
		t.Errorf("spinner = %+v", s)
	}
}
