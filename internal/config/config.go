// Package config resolves autoreview settings from .autoreview.yaml, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/forge"
	"github.com/richhaase/let-claude-code/internal/modes"
	"github.com/richhaase/let-claude-code/internal/schedule"
)

// FileName is the name of the config file in the project directory.
const FileName = ".autoreview.yaml"

// ErrMissingCredential indicates a required API key or token is not set.
var ErrMissingCredential = errors.New("missing credential")

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("5m", "300s") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the .autoreview.yaml file. Unset fields are nil.
type Config struct {
	BaseBranch    *string        `yaml:"base_branch"`
	MaxIterations *int           `yaml:"max_iterations"`
	AutoMerge     *bool          `yaml:"auto_merge"`
	Modes         []string       `yaml:"modes"`
	Agent         *string        `yaml:"agent"`
	Forge         *string        `yaml:"forge"`
	Interval      *Duration      `yaml:"interval"`
	Cron          *string        `yaml:"cron"`
	Timeouts      TimeoutConfig  `yaml:"timeouts"`
	LogFile       *string        `yaml:"log_file"`
	LockFile      *string        `yaml:"lock_file"`
	Telegram      TelegramConfig `yaml:"telegram"`
}

// TimeoutConfig holds the per-step timeouts.
type TimeoutConfig struct {
	Change  *Duration `yaml:"change"`
	Review  *Duration `yaml:"review"`
	Fix     *Duration `yaml:"fix"`
	Command *Duration `yaml:"command"`
	Push    *Duration `yaml:"push"`
}

// TelegramConfig holds notification settings. The bot token is only read
// from the environment or flags.
type TelegramConfig struct {
	ChatID *string `yaml:"chat_id"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Path     string
	Found    bool
	Warnings []string
}

// LoadFromDir reads .autoreview.yaml from dir.
func LoadFromDir(dir string) (*LoadResult, error) {
	return LoadFromPath(filepath.Join(dir, FileName))
}

// LoadFromPath reads a config file and returns warnings for unknown keys.
// Returns an empty config (not error) if the file doesn't exist.
// Returns an error if the file exists but is invalid YAML or has invalid values.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}, Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}

	return &LoadResult{Config: &cfg, Path: path, Found: true, Warnings: warnings}, nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{
	"base_branch", "max_iterations", "auto_merge", "modes", "agent", "forge",
	"interval", "cron", "timeouts", "log_file", "lock_file", "telegram",
}

var knownSectionKeys = map[string][]string{
	"timeouts": {"change", "review", "fix", "command", "push"},
	"telegram": {"chat_id"},
}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for _, key := range sortedKeys(raw) {
		if !slices.Contains(knownTopLevelKeys, key) {
			warnings = append(warnings, unknownKeyWarning(key, "", knownTopLevelKeys))
		}
	}

	for _, section := range []string{"timeouts", "telegram"} {
		sub, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range sortedKeys(sub) {
			if !slices.Contains(knownSectionKeys[section], key) {
				warnings = append(warnings, unknownKeyWarning(key, section, knownSectionKeys[section]))
			}
		}
	}

	return warnings
}

func unknownKeyWarning(key, section string, known []string) string {
	warning := fmt.Sprintf("unknown key %q in %s", key, FileName)
	if section != "" {
		warning = fmt.Sprintf("unknown key %q in %s section of %s", key, section, FileName)
	}
	if suggestion := findSimilar(key, known); suggestion != "" {
		warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return warning
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is similar enough (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.MaxIterations != nil && *c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", *c.MaxIterations)
	}
	if c.Agent != nil {
		if err := validateAgent(*c.Agent, "agent"); err != nil {
			return err
		}
	}
	if c.Forge != nil {
		if err := validateForge(*c.Forge, "forge"); err != nil {
			return err
		}
	}
	if c.Interval != nil && *c.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %s", c.Interval.AsDuration())
	}
	if c.Cron != nil {
		if _, err := schedule.ParseCron(*c.Cron); err != nil {
			return fmt.Errorf("cron: %w", err)
		}
	}
	if c.Interval != nil && c.Cron != nil {
		return errors.New("interval and cron are mutually exclusive")
	}
	for name, d := range map[string]*Duration{
		"change":  c.Timeouts.Change,
		"review":  c.Timeouts.Review,
		"fix":     c.Timeouts.Fix,
		"command": c.Timeouts.Command,
		"push":    c.Timeouts.Push,
	} {
		if d != nil && *d <= 0 {
			return fmt.Errorf("timeouts.%s must be > 0, got %s", name, d.AsDuration())
		}
	}
	if len(c.Modes) > 0 {
		if err := validateModes(c.Modes); err != nil {
			return err
		}
	}
	return nil
}

func validateAgent(name, field string) error {
	if !slices.Contains(agent.SupportedAgents, name) {
		return fmt.Errorf("%s must be one of %v, got %q", field, agent.SupportedAgents, name)
	}
	return nil
}

func validateForge(kind, field string) error {
	if !slices.Contains(forge.SupportedKinds, kind) {
		return fmt.Errorf("%s must be one of %v, got %q", field, forge.SupportedKinds, kind)
	}
	return nil
}

// validateModes accepts what the --mode flag accepts.
func validateModes(keys []string) error {
	if _, _, err := modes.Default().Select(keys); err != nil {
		return fmt.Errorf("modes: %w", err)
	}
	return nil
}
