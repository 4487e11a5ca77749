package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadFromDir_ValidConfig(t *testing.T) {
	dir := writeConfig(t, `base_branch: develop
max_iterations: 5
auto_merge: true
modes:
  - fix_bugs
  - security
agent: codex
forge: gitlab
cron: "0 */4 * * *"
timeouts:
  change: 30m
  review: 300
  push: 90s
log_file: logs/review.log
telegram:
  chat_id: "42"
`)

	res, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Error("expected Found")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	cfg := res.Config
	if *cfg.BaseBranch != "develop" || *cfg.MaxIterations != 5 || !*cfg.AutoMerge {
		t.Errorf("unexpected scalars: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"fix_bugs", "security"}, cfg.Modes); diff != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", diff)
	}
	if *cfg.Agent != "codex" || *cfg.Forge != "gitlab" || *cfg.Cron != "0 */4 * * *" {
		t.Errorf("unexpected agent/forge/cron: %+v", cfg)
	}
	if cfg.Timeouts.Change.AsDuration() != 30*time.Minute {
		t.Errorf("change = %s", cfg.Timeouts.Change.AsDuration())
	}
	if cfg.Timeouts.Review.AsDuration() != 5*time.Minute {
		t.Errorf("review = %s", cfg.Timeouts.Review.AsDuration())
	}
	if cfg.Timeouts.Fix != nil {
		t.Error("fix should be unset")
	}
	if *cfg.Telegram.ChatID != "42" {
		t.Errorf("chat_id = %q", *cfg.Telegram.ChatID)
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	res, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if res.Found {
		t.Error("Found should be false")
	}
	if diff := cmp.Diff(&Config{}, res.Config); diff != "" {
		t.Errorf("expected empty config (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "base_branch: [unclosed\n")
	if _, err := LoadFromDir(dir); err == nil || !strings.Contains(err.Error(), "invalid .autoreview.yaml") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"max iterations", "max_iterations: 0\n", "max_iterations must be >= 1"},
		{"agent", "agent: copilot\n", "agent must be one of"},
		{"forge", "forge: bitbucket\n", "forge must be one of"},
		{"cron", "cron: \"not a cron\"\n", "invalid cron expression"},
		{"interval", "interval: 0\n", "interval must be > 0"},
		{"interval and cron", "interval: 1h\ncron: \"@daily\"\n", "mutually exclusive"},
		{"timeout", "timeouts:\n  fix: -5s\n", "timeouts.fix must be > 0"},
		{"duration", "timeouts:\n  fix: soon\n", "invalid duration"},
		{"mode", "modes: [fix_bugz]\n", "fix_bugz"},
		{"unknown before selector", "modes: [fix_bugz, northstar]\n", "modes:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromDir(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromPath_SelectorModes(t *testing.T) {
	for _, m := range []string{"all", "interactive", "northstar", "fix_bugs, northstar"} {
		if _, err := LoadFromDir(writeConfig(t, "modes: ["+m+"]\n")); err != nil {
			t.Errorf("modes [%s]: %v", m, err)
		}
	}
}

func TestLoadFromPath_UnknownKeys(t *testing.T) {
	dir := writeConfig(t, `base_brnch: main
max_iterations: 2
unrelated: true
timeouts:
  reveiw: 5m
telegram:
  token: abc
`)

	res, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`unknown key "base_brnch" in .autoreview.yaml (did you mean "base_branch"?)`,
		`unknown key "unrelated" in .autoreview.yaml`,
		`unknown key "reveiw" in timeouts section of .autoreview.yaml (did you mean "review"?)`,
		`unknown key "token" in telegram section of .autoreview.yaml`,
	}
	if diff := cmp.Diff(want, res.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"d: 10m", 10 * time.Minute},
		{"d: 90", 90 * time.Second},
		{"d: 1.5", 1500 * time.Millisecond},
		{`d: "2h30m"`, 150 * time.Minute},
	}
	for _, tt := range tests {
		var v struct {
			D Duration `yaml:"d"`
		}
		if err := yaml.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if v.D.AsDuration() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.in, v.D.AsDuration(), tt.want)
		}
	}

	var v struct {
		D Duration `yaml:"d"`
	}
	if err := yaml.Unmarshal([]byte("d: [1]"), &v); err == nil {
		t.Error("expected error for list duration")
	}
}

func TestFindSimilar(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"base_brnch", "base_branch"},
		{"max_iteration", "max_iterations"},
		{"agnet", "agent"},
		{"completely_different", ""},
	}
	for _, tt := range tests {
		if got := findSimilar(tt.input, knownTopLevelKeys); got != tt.want {
			t.Errorf("findSimilar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
