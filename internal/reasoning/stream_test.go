package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_Deltas(t *testing.T) {
	var acc Accumulator
	assert.False(t, acc.Add(`{"type":"response.created","response":{"id":"r1"}}`))
	assert.False(t, acc.Add(`{"type":"response.output_text.delta","delta":"Hello"}`))
	assert.False(t, acc.Add(`{"type":"response.output.delta","delta":" world"}`))

	text, ok := acc.Text()
	require.True(t, ok)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, 2, acc.Chunks())
	assert.False(t, acc.Done())
}

func TestAccumulator_PrefersFinalOutput(t *testing.T) {
	tests := []struct {
		name  string
		event string
		want  string
	}{
		{
			name:  "output items",
			event: `{"type":"response.completed","response":{"output":[{"type":"reasoning","content":[]},{"type":"message","content":[{"type":"output_text","text":"full answer"}]}]}}`,
			want:  "full answer",
		},
		{
			name:  "output string",
			event: `{"type":"response.done","response":{"output":"full answer"}}`,
			want:  "full answer",
		},
		{
			name:  "output_text field",
			event: `{"type":"response.completed","response":{"output_text":"full answer"}}`,
			want:  "full answer",
		},
		{
			name:  "no output falls back to deltas",
			event: `{"type":"response.completed","response":{"status":"completed"}}`,
			want:  "partial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc Accumulator
			acc.Add(`{"type":"response.output_text.delta","delta":"partial"}`)
			assert.True(t, acc.Add(tt.event))
			assert.True(t, acc.Done())

			text, ok := acc.Text()
			require.True(t, ok)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestAccumulator_IgnoresUnknownAndMalformed(t *testing.T) {
	var acc Accumulator
	events := []string{
		`{"type":"response.in_progress"}`,
		`not json`,
		`{"type":"response.output_text.delta","delta":{"text":"a"}}`,
		`{"type":"response.output_text.delta","delta":42}`,
		`{"type":"response.output_text.delta"}`,
		`{"delta":"no type"}`,
		``,
		`{"type":"response.output_text.delta","delta":"b"}`,
	}
	for _, ev := range events {
		assert.False(t, acc.Add(ev), "event %q", ev)
	}

	text, ok := acc.Text()
	require.True(t, ok)
	assert.Equal(t, "ab", text)
}

func TestAccumulator_DoneSentinel(t *testing.T) {
	var acc Accumulator
	acc.Add(`{"type":"response.output_text.delta","delta":"x"}`)
	assert.True(t, acc.Add("[DONE]"))
	// Events after completion are ignored.
	assert.True(t, acc.Add(`{"type":"response.output_text.delta","delta":"y"}`))

	text, _ := acc.Text()
	assert.Equal(t, "x", text)
}

func TestAccumulator_TextDoneWithoutDeltas(t *testing.T) {
	var acc Accumulator
	acc.Add(`{"type":"response.output_text.done","text":"whole"}`)
	text, ok := acc.Text()
	require.True(t, ok)
	assert.Equal(t, "whole", text)
}

func TestAccumulator_Empty(t *testing.T) {
	var acc Accumulator
	_, ok := acc.Text()
	assert.False(t, ok)
}
