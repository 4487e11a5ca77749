package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by Init when the config file is already present.
var ErrExists = errors.New("config file already exists")

// Template is the starter file written by Init.
const Template = `# autoreview configuration
# Precedence: flags > environment > this file > defaults.

# Branch that change requests target.
base_branch: main

# Review-fix rounds before a change request is left for manual attention.
max_iterations: 3

# Squash-merge approved change requests automatically.
auto_merge: false

# Improvement modes (see autoreview --list-modes), "all", "interactive" or "northstar".
# modes:
#   - fix_bugs
#   - add_tests

# Coding assistant: claude, codex or gemini.
agent: claude

# Change request host: auto, github or gitlab.
forge: auto

# Schedule for runs without --once. Use one of interval or cron.
# interval: 1h
# cron: "0 */4 * * *"

# Durations accept Go syntax (10m) or integer seconds.
timeouts:
  change: 1h
  review: 10m
  fix: 20m
  command: 60s
  push: 120s

log_file: auto_review.log
lock_file: .auto_review.lock

# The bot token is read from TG_BOT_TOKEN or --tg-bot-token only.
# telegram:
#   chat_id: "123456789"
`

// Init writes Template to dir and returns its path.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return path, fmt.Errorf("failed to create config file: %w", err)
	}
	if _, err := f.WriteString(Template); err != nil {
		_ = f.Close()
		return path, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, f.Close()
}

// shown is the YAML rendering of a Resolved config.
type shown struct {
	BaseBranch    string   `yaml:"base_branch"`
	MaxIterations int      `yaml:"max_iterations"`
	AutoMerge     bool     `yaml:"auto_merge"`
	Modes         []string `yaml:"modes,omitempty"`
	Agent         string   `yaml:"agent"`
	Forge         string   `yaml:"forge"`
	Interval      string   `yaml:"interval,omitempty"`
	Cron          string   `yaml:"cron,omitempty"`
	Timeouts      struct {
		Change  string `yaml:"change"`
		Review  string `yaml:"review"`
		Fix     string `yaml:"fix"`
		Command string `yaml:"command"`
		Push    string `yaml:"push"`
	} `yaml:"timeouts"`
	LogFile  string `yaml:"log_file"`
	LockFile string `yaml:"lock_file"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id,omitempty"`
	} `yaml:"telegram"`
}

// Show renders r as YAML with the bot token redacted.
func Show(r Resolved) (string, error) {
	s := shown{
		BaseBranch:    r.BaseBranch,
		MaxIterations: r.MaxIterations,
		AutoMerge:     r.AutoMerge,
		Modes:         r.Modes,
		Agent:         r.Agent,
		Forge:         r.Forge,
		Cron:          r.Cron,
		LogFile:       r.LogFile,
		LockFile:      r.LockFile,
	}
	if r.Interval > 0 {
		s.Interval = r.Interval.String()
	}
	s.Timeouts.Change = r.Timeouts.Change.String()
	s.Timeouts.Review = r.Timeouts.Review.String()
	s.Timeouts.Fix = r.Timeouts.Fix.String()
	s.Timeouts.Command = r.CommandTimeout.String()
	s.Timeouts.Push = r.PushTimeout.String()
	s.Telegram.BotToken = "(not set)"
	if r.TelegramToken != "" {
		s.Telegram.BotToken = "(set)"
	}
	s.Telegram.ChatID = r.TelegramChatID

	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}
