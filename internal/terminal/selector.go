package terminal

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrSelectionCanceled is returned by Select when the user quits.
var ErrSelectionCanceled = errors.New("selection canceled")

// Option is one selectable entry.
type Option struct {
	Key         string
	Name        string
	Description string
	// Detail is shown when the entry is expanded.
	Detail string
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	None    key.Binding
	Expand  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var defaultKeys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	None:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
	Expand:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "details")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// SelectorModel is the bubbletea model for the interactive mode selector.
type SelectorModel struct {
	title     string
	options   []Option
	selected  map[int]bool
	expanded  map[int]bool
	cursor    int
	width     int
	keys      keyMap
	confirmed bool
	quitted   bool
}

// NewSelector creates a selector with nothing selected.
func NewSelector(title string, options []Option) SelectorModel {
	return SelectorModel{
		title:    title,
		options:  options,
		selected: make(map[int]bool, len(options)),
		expanded: make(map[int]bool),
		width:    defaultWidth,
		keys:     defaultKeys,
	}
}

// Init implements tea.Model.
func (m SelectorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.options) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.All):
			for i := range m.options {
				m.selected[i] = true
			}
		case key.Matches(msg, m.keys.None):
			for i := range m.options {
				m.selected[i] = false
			}
		case key.Matches(msg, m.keys.Expand):
			if len(m.options) > 0 {
				m.expanded[m.cursor] = !m.expanded[m.cursor]
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m SelectorModel) View() string {
	if len(m.options) == 0 {
		return "Nothing to select.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selected[i] {
			check = selectedStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %-25s %s\n", cursor, check, opt.Name, dimStyle.Render(opt.Description))

		if m.expanded[i] && opt.Detail != "" {
			b.WriteString(dimStyle.Render(WrapText(opt.Detail, m.width, "      ")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m SelectorModel) helpLine() string {
	parts := []string{"↑/↓ navigate"}
	for _, kb := range []key.Binding{m.keys.Toggle, m.keys.All, m.keys.None, m.keys.Expand, m.keys.Confirm, m.keys.Quit} {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// SelectedIndices returns the indices of selected options in sorted order.
func (m SelectorModel) SelectedIndices() []int {
	indices := make([]int, 0, len(m.selected))
	for i, sel := range m.selected {
		if sel {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}

// SelectedKeys returns the keys of selected options in display order.
func (m SelectorModel) SelectedKeys() []string {
	var keys []string
	for _, i := range m.SelectedIndices() {
		keys = append(keys, m.options[i].Key)
	}
	return keys
}

// Confirmed returns true if the user confirmed the selection.
func (m SelectorModel) Confirmed() bool {
	return m.confirmed
}

// Quitted returns true if the user quit without confirming.
func (m SelectorModel) Quitted() bool {
	return m.quitted
}

// Select runs the selector on in/out and returns the chosen keys. An empty
// confirmed selection returns nil without error.
func Select(title string, options []Option, in io.Reader, out io.Writer) ([]string, error) {
	model := NewSelector(title, options)
	model.width = widthOf(out)
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run selector: %w", err)
	}
	m, ok := final.(SelectorModel)
	if !ok || m.Quitted() || !m.Confirmed() {
		return nil, ErrSelectionCanceled
	}
	return m.SelectedKeys(), nil
}
