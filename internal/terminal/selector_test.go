package terminal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func testOptions() []Option {
	return []Option{
		{Key: "fix_bugs", Name: "Fix Bugs", Description: "Find and fix bugs", Detail: "Look for logic errors and edge cases"},
		{Key: "add_tests", Name: "Add Tests", Description: "Add missing tests"},
		{Key: "security", Name: "Security", Description: "Fix security issues"},
	}
}

func press(t *testing.T, m SelectorModel, msgs ...tea.KeyMsg) (SelectorModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(SelectorModel)
	}
	return m, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewSelector_NothingSelected(t *testing.T) {
	m := NewSelector("Select", testOptions())
	if len(m.SelectedIndices()) != 0 {
		t.Errorf("expected no selection, got %v", m.SelectedIndices())
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", m.cursor)
	}
}

func TestUpdate_CursorMovement(t *testing.T) {
	m := NewSelector("Select", testOptions())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("down: cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor should stop at bottom, got %d", m.cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Errorf("up: cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor should stop at top, got %d", m.cursor)
	}
}

func TestUpdate_VimKeybindings(t *testing.T) {
	m := NewSelector("Select", testOptions())

	m, _ = press(t, m, runeKey('j'))
	if m.cursor != 1 {
		t.Errorf("j key: expected cursor=1, got %d", m.cursor)
	}
	m, _ = press(t, m, runeKey('k'))
	if m.cursor != 0 {
		t.Errorf("k key: expected cursor=0, got %d", m.cursor)
	}
}

func TestUpdate_SpaceTogglesSelection(t *testing.T) {
	m := NewSelector("Select", testOptions())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.selected[0] {
		t.Error("expected option to be selected after space")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.selected[0] {
		t.Error("expected option to be deselected after second space")
	}
}

func TestUpdate_SelectAllAndNone(t *testing.T) {
	m := NewSelector("Select", testOptions())

	m, _ = press(t, m, runeKey('a'))
	if diff := cmp.Diff([]int{0, 1, 2}, m.SelectedIndices()); diff != "" {
		t.Errorf("after 'a' (-want +got):\n%s", diff)
	}

	m, _ = press(t, m, runeKey('n'))
	if len(m.SelectedIndices()) != 0 {
		t.Errorf("after 'n' expected nothing selected, got %v", m.SelectedIndices())
	}
}

func TestSelectedKeys_DisplayOrder(t *testing.T) {
	m := NewSelector("Select", testOptions())
	m, _ = press(t, m,
		tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeySpace},
	)

	if diff := cmp.Diff([]string{"fix_bugs", "security"}, m.SelectedKeys()); diff != "" {
		t.Errorf("SelectedKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_ExpandToggle(t *testing.T) {
	m := NewSelector("Select", testOptions())

	if strings.Contains(m.View(), "logic errors") {
		t.Error("collapsed view should hide details")
	}
	m, _ = press(t, m, runeKey('e'))
	if !m.expanded[0] || !strings.Contains(m.View(), "logic errors") {
		t.Error("expanded view should show details")
	}
	m, _ = press(t, m, runeKey('e'))
	if m.expanded[0] {
		t.Error("expected option to be collapsed after second 'e'")
	}
}

func TestUpdate_EnterConfirms(t *testing.T) {
	m := NewSelector("Select", testOptions())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Confirmed() || m.Quitted() {
		t.Error("expected confirmed after enter")
	}
	if cmd == nil {
		t.Error("expected quit command after enter")
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := NewSelector("Select", testOptions())
		m, cmd := press(t, m, msg)
		if !m.Quitted() || m.Confirmed() {
			t.Errorf("%s: expected quitted", msg)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command", msg)
		}
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := NewSelector("Select", testOptions())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 42, Height: 10})
	if next.(SelectorModel).width != 42 {
		t.Errorf("width = %d, want 42", next.(SelectorModel).width)
	}
}

func TestView(t *testing.T) {
	m := NewSelector("Select improvement modes", testOptions())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	view := m.View()

	for _, want := range []string{"Select improvement modes", "Fix Bugs", "Find and fix bugs", "Security", "[x]", "[ ]", "navigate", "toggle"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestView_Empty(t *testing.T) {
	if got := NewSelector("Select", nil).View(); got != "Nothing to select.\n" {
		t.Errorf("View() = %q", got)
	}
	m, _ := press(t, NewSelector("Select", nil), tea.KeyMsg{Type: tea.KeySpace}, runeKey('e'))
	if len(m.SelectedIndices()) != 0 {
		t.Error("toggling an empty list should select nothing")
	}
}
