package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootUsage_Groups(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := cmd.Usage(); err != nil {
		t.Fatalf("Usage() returned error: %v", err)
	}
	output := buf.String()

	var last int
	for _, header := range []string{"Commands:", "Execution:", "Improvement Modes:", "Project Settings:", "Notifications:", "Advanced:", "Other Flags:"} {
		idx := strings.Index(output, header)
		if idx < 0 {
			t.Fatalf("expected group header %q in output, got:\n%s", header, output)
		}
		if idx < last {
			t.Errorf("group %q out of order", header)
		}
		last = idx
	}

	execIdx := strings.Index(output, "Execution:")
	modesIdx := strings.Index(output, "Improvement Modes:")
	if idx := strings.Index(output, "--interval"); idx < execIdx || idx > modesIdx {
		t.Error("expected --interval under Execution")
	}
	if idx := strings.Index(output, "--help"); idx < strings.Index(output, "Other Flags:") {
		t.Error("expected --help under Other Flags")
	}
	if !strings.Contains(output, "config") {
		t.Error("expected config subcommand to be listed")
	}
}

func TestFlagGroups_NoDuplicates(t *testing.T) {
	seen := make(map[string]string)
	for _, group := range flagGroups {
		for _, flag := range group.flags {
			if prev, ok := seen[flag]; ok {
				t.Errorf("flag %q appears in both %q and %q", flag, prev, group.title)
			}
			seen[flag] = group.title
		}
	}
}

func TestFlagGroups_CoverRootFlags(t *testing.T) {
	grouped := make(map[string]bool)
	for _, group := range flagGroups {
		for _, flag := range group.flags {
			grouped[flag] = true
		}
	}

	cmd := newRootCmd()
	for name := range grouped {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("grouped flag %q is not defined on the root command", name)
		}
	}
}
