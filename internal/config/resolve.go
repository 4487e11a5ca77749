package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/richhaase/let-claude-code/internal/agent"
	"github.com/richhaase/let-claude-code/internal/forge"
	"github.com/richhaase/let-claude-code/internal/git"
	"github.com/richhaase/let-claude-code/internal/lock"
	"github.com/richhaase/let-claude-code/internal/schedule"
)

// DefaultLogFile is the run log written in the project directory.
const DefaultLogFile = "auto_review.log"

// Defaults holds the built-in default values.
var Defaults = Resolved{
	BaseBranch:     "main",
	MaxIterations:  3,
	Agent:          agent.DefaultAgent,
	Forge:          forge.KindAuto,
	Timeouts:       agent.DefaultTimeouts,
	CommandTimeout: git.DefaultTimeout,
	PushTimeout:    forge.DefaultPushTimeout,
	LogFile:        DefaultLogFile,
	LockFile:       lock.FileName,
}

// Resolved holds the final resolved configuration values.
type Resolved struct {
	BaseBranch     string
	MaxIterations  int
	AutoMerge      bool
	Modes          []string
	Agent          string
	Forge          string
	Interval       time.Duration
	Cron           string
	Timeouts       agent.Timeouts
	CommandTimeout time.Duration
	PushTimeout    time.Duration
	// LogFile and LockFile are relative to the project directory unless absolute.
	LogFile        string
	LockFile       string
	TelegramToken  string
	TelegramChatID string
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	BaseBranchSet     bool
	MaxIterationsSet  bool
	AutoMergeSet      bool
	ModesSet          bool
	AgentSet          bool
	ForgeSet          bool
	IntervalSet       bool
	CronSet           bool
	TelegramTokenSet  bool
	TelegramChatIDSet bool
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults
func Resolve(cfg *Config, env Env, flags FlagState, flagValues Resolved) Resolved {
	result := Defaults
	result.Modes = nil

	if cfg != nil {
		applyFile(&result, cfg)
	}

	if env.BaseBranch != nil {
		result.BaseBranch = *env.BaseBranch
	}
	if env.MaxIterations != nil {
		result.MaxIterations = *env.MaxIterations
	}
	if env.Agent != nil {
		result.Agent = *env.Agent
	}
	if env.Forge != nil {
		result.Forge = *env.Forge
	}
	if env.TelegramToken != "" {
		result.TelegramToken = env.TelegramToken
	}
	if env.TelegramChatID != "" {
		result.TelegramChatID = env.TelegramChatID
	}

	if flags.BaseBranchSet {
		result.BaseBranch = flagValues.BaseBranch
	}
	if flags.MaxIterationsSet {
		result.MaxIterations = flagValues.MaxIterations
	}
	if flags.AutoMergeSet {
		result.AutoMerge = flagValues.AutoMerge
	}
	if flags.ModesSet {
		result.Modes = flagValues.Modes
	}
	if flags.AgentSet {
		result.Agent = flagValues.Agent
	}
	if flags.ForgeSet {
		result.Forge = flagValues.Forge
	}
	// A schedule given on the command line replaces the file's schedule.
	if flags.IntervalSet || flags.CronSet {
		result.Interval = 0
		result.Cron = ""
	}
	if flags.IntervalSet {
		result.Interval = flagValues.Interval
	}
	if flags.CronSet {
		result.Cron = flagValues.Cron
	}
	if flags.TelegramTokenSet {
		result.TelegramToken = flagValues.TelegramToken
	}
	if flags.TelegramChatIDSet {
		result.TelegramChatID = flagValues.TelegramChatID
	}

	return result
}

func applyFile(result *Resolved, cfg *Config) {
	if cfg.BaseBranch != nil {
		result.BaseBranch = *cfg.BaseBranch
	}
	if cfg.MaxIterations != nil {
		result.MaxIterations = *cfg.MaxIterations
	}
	if cfg.AutoMerge != nil {
		result.AutoMerge = *cfg.AutoMerge
	}
	if len(cfg.Modes) > 0 {
		result.Modes = append([]string(nil), cfg.Modes...)
	}
	if cfg.Agent != nil {
		result.Agent = *cfg.Agent
	}
	if cfg.Forge != nil {
		result.Forge = *cfg.Forge
	}
	if cfg.Interval != nil {
		result.Interval = cfg.Interval.AsDuration()
	}
	if cfg.Cron != nil {
		result.Cron = *cfg.Cron
	}
	if cfg.Timeouts.Change != nil {
		result.Timeouts.Change = cfg.Timeouts.Change.AsDuration()
	}
	if cfg.Timeouts.Review != nil {
		result.Timeouts.Review = cfg.Timeouts.Review.AsDuration()
	}
	if cfg.Timeouts.Fix != nil {
		result.Timeouts.Fix = cfg.Timeouts.Fix.AsDuration()
	}
	if cfg.Timeouts.Command != nil {
		result.CommandTimeout = cfg.Timeouts.Command.AsDuration()
	}
	if cfg.Timeouts.Push != nil {
		result.PushTimeout = cfg.Timeouts.Push.AsDuration()
	}
	if cfg.LogFile != nil {
		result.LogFile = *cfg.LogFile
	}
	if cfg.LockFile != nil {
		result.LockFile = *cfg.LockFile
	}
	if cfg.Telegram.ChatID != nil {
		result.TelegramChatID = *cfg.Telegram.ChatID
	}
}

// Validate checks the merged values, including those that came from flags.
func (r Resolved) Validate() error {
	if r.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be >= 1, got %d", r.MaxIterations)
	}
	if err := validateAgent(r.Agent, "agent"); err != nil {
		return err
	}
	if err := validateForge(r.Forge, "forge"); err != nil {
		return err
	}
	if r.Interval < 0 {
		return fmt.Errorf("interval must be > 0, got %s", r.Interval)
	}
	if r.Interval > 0 && r.Cron != "" {
		return errors.New("interval and cron are mutually exclusive")
	}
	if r.Cron != "" {
		if _, err := schedule.ParseCron(r.Cron); err != nil {
			return fmt.Errorf("cron: %w", err)
		}
	}
	for name, d := range map[string]time.Duration{
		"change":  r.Timeouts.Change,
		"review":  r.Timeouts.Review,
		"fix":     r.Timeouts.Fix,
		"command": r.CommandTimeout,
		"push":    r.PushTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s timeout must be > 0, got %s", name, d)
		}
	}
	if len(r.Modes) > 0 {
		return validateModes(r.Modes)
	}
	return nil
}
