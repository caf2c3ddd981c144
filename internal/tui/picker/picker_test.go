package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testItems() []Item {
	return []Item{
		{Name: "build", Summary: "compile the project"},
		{Name: "deps.fetch", Summary: "fetch dependencies", Recursive: true},
		{Name: "test", Summary: "run the test suite"},
	}
}

func typeRunes(t *testing.T, m Model, s string) Model {
	t.Helper()

	var tm tea.Model = m
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return tm.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()

	var tm tea.Model = m
	tm, _ = tm.Update(tea.KeyMsg{Type: key})
	return tm.(Model)
}

func TestPickerShowsAllItemsInitially(t *testing.T) {
	m := New(testItems())
	if len(m.matches) != 3 {
		t.Errorf("matches = %d, want 3", len(m.matches))
	}

	view := m.View()
	for _, name := range []string{"build", "deps.fetch", "test"} {
		if !strings.Contains(view, name) {
			t.Errorf("view does not contain %q", name)
		}
	}
}

func TestPickerFiltersByQuery(t *testing.T) {
	m := New(testItems())
	m = typeRunes(t, m, "dep")

	if len(m.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(m.matches))
	}
	if got := m.items[m.matches[0]].Name; got != "deps.fetch" {
		t.Errorf("match = %q, want %q", got, "deps.fetch")
	}
}

func TestPickerFilterMatchesSummary(t *testing.T) {
	m := New(testItems())
	m = typeRunes(t, m, "suite")

	if len(m.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(m.matches))
	}
	if got := m.items[m.matches[0]].Name; got != "test" {
		t.Errorf("match = %q, want %q", got, "test")
	}
}

func TestPickerEnterSelects(t *testing.T) {
	m := New(testItems())
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyEnter)

	if m.Choice() != "deps.fetch" {
		t.Errorf("Choice = %q, want %q", m.Choice(), "deps.fetch")
	}
}

func TestPickerEscCancels(t *testing.T) {
	m := New(testItems())
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyEsc)

	if m.Choice() != "" {
		t.Errorf("Choice = %q after cancel, want empty", m.Choice())
	}
}

func TestPickerCursorStaysValidAfterNarrowing(t *testing.T) {
	m := New(testItems())
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown) // cursor on the last item
	m = typeRunes(t, m, "build") // narrows to one match

	if len(m.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(m.matches))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after narrowing, want 0", m.cursor)
	}

	m = press(t, m, tea.KeyEnter)
	if m.Choice() != "build" {
		t.Errorf("Choice = %q, want %q", m.Choice(), "build")
	}
}

func TestPickerEnterWithNoMatches(t *testing.T) {
	m := New(testItems())
	m = typeRunes(t, m, "zzz")
	if len(m.matches) != 0 {
		t.Fatalf("matches = %d, want 0", len(m.matches))
	}

	m = press(t, m, tea.KeyEnter)
	if m.Choice() != "" {
		t.Errorf("Choice = %q with no matches, want empty", m.Choice())
	}
}
