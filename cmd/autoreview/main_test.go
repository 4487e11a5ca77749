package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richhaase/let-claude-code/internal/northstar"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRoot_ListModes(t *testing.T) {
	out, err := executeRoot(t, "--list-modes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "fix_bugs") || !strings.Contains(out, "Special modes:") {
		t.Errorf("unexpected listing:\n%s", out)
	}
}

func TestRoot_InitNorthStar(t *testing.T) {
	dir := t.TempDir()

	out, err := executeRoot(t, "--init-northstar", "--project-dir", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, northstar.FileName)); statErr != nil {
		t.Fatalf("template not written: %v", statErr)
	}
	if !strings.Contains(out, "Next steps:") {
		t.Errorf("output missing next steps:\n%s", out)
	}

	out, err = executeRoot(t, "--init-northstar", "--project-dir", dir)
	exitErr, ok := err.(exitCodeError)
	if !ok || exitErr.code.Int() != 1 {
		t.Fatalf("second init err = %v, want exit code 1", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("output = %q", out)
	}
}

func TestRoot_ScheduleValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"none", nil, "specify --once, --interval, or --cron"},
		{"once and interval", []string{"--once", "--interval", "60"}, "mutually exclusive"},
		{"interval and cron", []string{"--interval", "60", "--cron", "@hourly"}, "mutually exclusive"},
		{"zero interval", []string{"--interval", "0"}, "--interval must be > 0"},
		{"bad cron", []string{"--cron", "not a cron"}, "invalid cron expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--no-config", "--project-dir", t.TempDir(), "-m", "fix_bugs"}, tt.args...)
			_, err := executeRoot(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRoot_InvalidMode(t *testing.T) {
	_, err := executeRoot(t, "--no-config", "--project-dir", t.TempDir(), "--once", "-m", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown mode "nope"`) {
		t.Errorf("err = %v", err)
	}
}

func TestRoot_RejectsPositionalArgs(t *testing.T) {
	if _, err := executeRoot(t, "extra"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	if code := run([]string{"--list-modes"}); code != 0 {
		t.Errorf("run(--list-modes) = %d, want 0", code)
	}
	if code := run([]string{"--bogus-flag"}); code != 1 {
		t.Errorf("run(--bogus-flag) = %d, want 1", code)
	}
}
