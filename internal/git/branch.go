package git

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultBranchPrefix is used when no mode is selected.
	DefaultBranchPrefix = "review"

	suffixLetters = "abcdefghijklmnopqrstuvwxyz"
	suffixLen     = 4
)

// BranchName returns a unique branch name of the form
// auto-<mode>/<YYYYMMDD-HHMMSS>-<4 random lowercase letters>.
// Underscores in mode become dashes.
func BranchName(mode string, now time.Time) string {
	prefix := strings.ReplaceAll(strings.TrimSpace(mode), "_", "-")
	if prefix == "" {
		prefix = DefaultBranchPrefix
	}
	return fmt.Sprintf("auto-%s/%s-%s", prefix, now.Format("20060102-150405"), randomSuffix())
}

func randomSuffix() string {
	b := make([]byte, suffixLen)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms; fall back to the clock.
		n := time.Now().UnixNano()
		for i := range b {
			b[i] = byte(n >> (8 * i))
		}
	}
	for i := range b {
		b[i] = suffixLetters[int(b[i])%len(suffixLetters)]
	}
	return string(b)
}
