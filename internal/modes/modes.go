// Package modes defines the improvement modes an assistant can be asked to apply.
package modes

import (
	"fmt"
	"strings"
)

// Special selectors accepted wherever a mode key is.
const (
	All         = "all"
	Interactive = "interactive"
	NorthStar   = "northstar"
	Custom      = "custom"
)

// Mode is one category of code improvement.
type Mode struct {
	Key         string
	Name        string
	Description string
	Prompt      string
}

// Registry is an immutable, ordered set of modes.
type Registry struct {
	modes []Mode
	index map[string]int
}

// NewRegistry builds a registry from modes in display order.
func NewRegistry(modes []Mode) (*Registry, error) {
	r := &Registry{
		modes: make([]Mode, 0, len(modes)),
		index: make(map[string]int, len(modes)),
	}
	for _, m := range modes {
		if m.Key == "" {
			return nil, fmt.Errorf("mode %q has an empty key", m.Name)
		}
		if isSelector(m.Key) {
			return nil, fmt.Errorf("mode key %q is reserved", m.Key)
		}
		if _, dup := r.index[m.Key]; dup {
			return nil, fmt.Errorf("duplicate mode key %q", m.Key)
		}
		r.index[m.Key] = len(r.modes)
		r.modes = append(r.modes, m)
	}
	return r, nil
}

// Default returns the built-in modes.
func Default() *Registry {
	r, err := NewRegistry(builtin)
	if err != nil {
		panic(err)
	}
	return r
}

func isSelector(key string) bool {
	switch key {
	case All, Interactive, NorthStar, Custom:
		return true
	}
	return false
}

// All returns a copy of every mode in display order.
func (r *Registry) All() []Mode {
	out := make([]Mode, len(r.modes))
	copy(out, r.modes)
	return out
}

// Keys returns every mode key in display order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.modes))
	for i, m := range r.modes {
		keys[i] = m.Key
	}
	return keys
}

// Get looks up a mode by key.
func (r *Registry) Get(key string) (Mode, bool) {
	i, ok := r.index[key]
	if !ok {
		return Mode{}, false
	}
	return r.modes[i], true
}

// Resolve validates keys, expands "all", and drops duplicates while
// preserving first-seen order.
func (r *Registry) Resolve(keys []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	for _, k := range keys {
		k = strings.TrimSpace(k)
		switch {
		case k == All:
			for _, m := range r.modes {
				add(m.Key)
			}
		case isSelector(k):
			return nil, fmt.Errorf("%q is not an improvement mode key", k)
		default:
			if _, ok := r.index[k]; !ok {
				return nil, fmt.Errorf("unknown mode %q (available: %s)", k, strings.Join(r.Keys(), ", "))
			}
			add(k)
		}
	}
	return out, nil
}

// Select applies command-line precedence to keys: the first of all,
// interactive or northstar ends the scan and replaces everything before
// it. Keys ahead of that selector must still be known modes. special is
// Interactive or NorthStar when one of them won, with modes left nil;
// otherwise modes holds the resolved keys.
func (r *Registry) Select(keys []string) (special string, modes []string, err error) {
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if k != All && k != Interactive && k != NorthStar {
			continue
		}
		if _, err := r.Resolve(keys[:i]); err != nil {
			return "", nil, err
		}
		if k == All {
			return "", r.Keys(), nil
		}
		return k, nil, nil
	}
	resolved, err := r.Resolve(keys)
	return "", resolved, err
}

// Names returns the display names of keys joined by ", ", or "Unknown"
// when none of them are known.
func (r *Registry) Names(keys []string) string {
	var names []string
	for _, k := range keys {
		switch k {
		case NorthStar:
			names = append(names, "North Star")
		case Custom:
			names = append(names, "Custom Prompt")
		default:
			if m, ok := r.Get(k); ok {
				names = append(names, m.Name)
			}
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

const (
	combinedHeader = "You will perform multiple types of code improvements. Complete each section in order.\n\n"
	combinedFooter = "\n\n---\n\nIMPORTANT: Work through each section systematically. Make atomic commits for each improvement " +
		"with appropriate prefixes (fix:, refactor:, ux:, test:, docs:, security:, perf:, cleanup:, modernize:, a11y:).\n"
)

// CombinedPrompt returns the assistant prompt for keys. A single mode's
// prompt is returned verbatim; several are joined into sections.
func (r *Registry) CombinedPrompt(keys []string) string {
	if len(keys) == 1 {
		if m, ok := r.Get(keys[0]); ok {
			return m.Prompt
		}
	}

	var sections []string
	for _, k := range keys {
		if m, ok := r.Get(k); ok {
			sections = append(sections, fmt.Sprintf("## %s\n\n%s", m.Name, m.Prompt))
		}
	}
	return combinedHeader + strings.Join(sections, "\n\n---\n\n") + combinedFooter
}
