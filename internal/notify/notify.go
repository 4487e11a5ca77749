// Package notify sends run notifications to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// Notifier delivers a message. Send reports whether delivery succeeded;
// failures are logged and never returned to the caller.
type Notifier interface {
	Send(ctx context.Context, text string) bool
	Enabled() bool
}

// New returns a Telegram notifier, or Nop when the token or chat id is empty.
func New(token, chatID string) Notifier {
	if token == "" || chatID == "" {
		return Nop{}
	}
	return NewTelegram(token, chatID)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Send(context.Context, string) bool { return false }
func (Nop) Enabled() bool                     { return false }

const (
	// DefaultAPIURL is the Telegram Bot API endpoint.
	DefaultAPIURL = "https://api.telegram.org"
	sendTimeout   = 10 * time.Second
)

// Telegram posts messages through the Bot API sendMessage method.
type Telegram struct {
	token  string
	chatID string
	apiURL string
	client *http.Client
}

var _ Notifier = (*Telegram)(nil)

// Option configures a Telegram notifier.
type Option func(*Telegram)

// WithAPIURL overrides the Bot API base URL.
func WithAPIURL(u string) Option {
	return func(t *Telegram) { t.apiURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Telegram) { t.client = c }
}

// NewTelegram creates a notifier for chatID using the bot token.
func NewTelegram(token, chatID string, opts ...Option) *Telegram {
	t := &Telegram{
		token:  token,
		chatID: chatID,
		apiURL: DefaultAPIURL,
		client: &http.Client{Timeout: sendTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Telegram) Enabled() bool { return true }

// Send posts text with Markdown parsing and link previews disabled.
func (t *Telegram) Send(ctx context.Context, text string) bool {
	if err := t.send(ctx, text); err != nil {
		clog.FromContext(ctx).With("chat_id", t.chatID).Warnf("Failed to send Telegram message: %v", err)
		return false
	}
	return true
}

func (t *Telegram) send(ctx context.Context, text string) error {
	form := url.Values{
		"chat_id":                  {t.chatID},
		"text":                     {text},
		"parse_mode":               {"Markdown"},
		"disable_web_page_preview": {"true"},
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		// The URL embeds the token; report only the transport failure.
		if uerr, ok := err.(*url.Error); ok {
			return fmt.Errorf("request failed: %w", uerr.Err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
