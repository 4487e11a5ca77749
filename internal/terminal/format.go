package terminal

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders d as "12.3s", or "4m 5.0s" from one minute up.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := d / time.Minute
	return fmt.Sprintf("%dm %.1fs", int(mins), (d - mins*time.Minute).Seconds())
}

// WrapText fills words into lines of at most width columns, each starting
// with indent. A word longer than a line gets a line of its own.
func WrapText(text string, width int, indent string) string {
	if width <= len(indent) {
		return indent + text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	lines := []string{indent + words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, indent+w)
			continue
		}
		*last += " " + w
	}
	return strings.Join(lines, "\n")
}
