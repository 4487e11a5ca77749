package reasoning

import (
	"encoding/json"
	"strings"
)

// Accumulator assembles a Responses API event stream into text. Event
// framing is treated as unstable: unknown types and undecodable payloads
// are skipped.
type Accumulator struct {
	deltas strings.Builder
	chunks int
	final  string
	done   bool
}

// streamEvent holds the fields read from any event shape.
type streamEvent struct {
	Type     string          `json:"type"`
	Delta    json.RawMessage `json:"delta"`
	Text     string          `json:"text"`
	Response json.RawMessage `json:"response"`
}

type streamResponse struct {
	OutputText string          `json:"output_text"`
	Output     json.RawMessage `json:"output"`
}

type outputItem struct {
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Add consumes one event payload and reports whether the stream is complete.
func (a *Accumulator) Add(data string) bool {
	if a.done {
		return true
	}
	data = strings.TrimSpace(data)
	if data == "[DONE]" {
		a.done = true
		return true
	}

	var ev streamEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return false
	}

	switch ev.Type {
	case "response.output_text.delta", "response.output.delta":
		if d := deltaText(ev.Delta); d != "" {
			a.deltas.WriteString(d)
			a.chunks++
		}
	case "response.output_text.done":
		if a.chunks == 0 && ev.Text != "" {
			a.deltas.WriteString(ev.Text)
		}
	case "response.completed", "response.done":
		a.final = responseText(ev.Response)
		a.done = true
	}
	return a.done
}

// Chunks returns the number of text deltas received.
func (a *Accumulator) Chunks() int {
	return a.chunks
}

// Done reports whether a terminal event was seen.
func (a *Accumulator) Done() bool {
	return a.done
}

// Text returns the complete output, preferring the final response over the
// assembled deltas. The boolean is false when no text arrived at all.
func (a *Accumulator) Text() (string, bool) {
	if a.final != "" {
		return a.final, true
	}
	if a.deltas.Len() > 0 {
		return a.deltas.String(), true
	}
	return "", false
}

func deltaText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Text
	}
	return ""
}

// responseText extracts the output text of a final response object. The
// output field is either a plain string or a list of message items.
func responseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var resp streamResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ""
	}
	if resp.OutputText != "" {
		return resp.OutputText
	}
	if len(resp.Output) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(resp.Output, &s); err == nil {
		return s
	}
	var items []outputItem
	if err := json.Unmarshal(resp.Output, &items); err != nil {
		return ""
	}
	var b strings.Builder
	for _, item := range items {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	return b.String()
}
