package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/richhaase/let-claude-code/internal/modes"
	"github.com/richhaase/let-claude-code/internal/northstar"
	"github.com/richhaase/let-claude-code/internal/terminal"
)

// errNothingSelected ends the run without error when the interactive
// selection is cancelled or left empty.
var errNothingSelected = errors.New("no modes selected")

// selection is what a session will ask the assistant to do.
type selection struct {
	Modes []string
	// Prompt is a custom prompt loaded from --prompt-file.
	Prompt string
	// NorthStar re-reads NORTHSTAR.md at the start of every session.
	NorthStar bool
}

// selectFunc presents the options and returns the chosen keys.
type selectFunc func(options []terminal.Option) ([]string, error)

// selector resolves mode flags into a selection.
type selector struct {
	registry   *modes.Registry
	projectDir string
	out        io.Writer
	pick       selectFunc
}

// resolve applies a prompt file first, then the mode keys. The first all,
// interactive or northstar key wins over the keys around it. No keys at all
// starts the interactive selection.
func (s selector) resolve(keys []string, promptFile string) (selection, error) {
	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return selection{}, fmt.Errorf("prompt file not found: %s", promptFile)
			}
			return selection{}, fmt.Errorf("failed to read prompt file: %w", err)
		}
		fmt.Fprintf(s.out, "Loaded custom prompt from %s\n", promptFile)
		return selection{Modes: []string{modes.Custom}, Prompt: string(data)}, nil
	}

	if len(keys) == 0 {
		fmt.Fprintln(s.out, "No improvement mode specified. Starting interactive selection...")
		return s.interactive()
	}

	special, resolved, err := s.registry.Select(keys)
	if err != nil {
		return selection{}, err
	}
	switch special {
	case modes.NorthStar:
		if _, err := northstar.Prompt(s.projectDir); err != nil {
			return selection{}, fmt.Errorf("%w\n\nTo use northstar mode, create a %s file in your project root.\n"+
				"This file should describe your project vision, goals, and milestones.", err, northstar.FileName)
		}
		return selection{Modes: []string{modes.NorthStar}, NorthStar: true}, nil
	case modes.Interactive:
		return s.interactive()
	}
	return selection{Modes: resolved}, nil
}

func (s selector) interactive() (selection, error) {
	all := s.registry.All()
	options := make([]terminal.Option, 0, len(all))
	for _, m := range all {
		options = append(options, terminal.Option{
			Key:         m.Key,
			Name:        m.Name,
			Description: m.Description,
			Detail:      m.Prompt,
		})
	}

	keys, err := s.pick(options)
	if errors.Is(err, terminal.ErrSelectionCanceled) || (err == nil && len(keys) == 0) {
		return selection{}, errNothingSelected
	}
	if err != nil {
		return selection{}, err
	}
	return selection{Modes: keys}, nil
}

// terminalSelect runs the bubbletea selector on the process terminal.
func terminalSelect(options []terminal.Option) ([]string, error) {
	return terminal.Select("Select improvement modes", options, os.Stdin, os.Stdout)
}
