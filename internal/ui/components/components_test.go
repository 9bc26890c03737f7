package components

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestCommandBarHistory(t *testing.T) {
	m := NewCommandBar()

	for _, input := range []string{":sync", ":sync", ":variant fill", ":"} {
		m.Activate()
		m.textInput.SetValue(input)
		m.Submit()
	}

	if got, want := m.History(), []string{":sync", ":variant fill"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("History() = %v, want %v", got, want)
	}
	if m.IsActive() {
		t.Error("Submit() should close the prompt")
	}

	m.Activate()
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Value() != ":variant fill" {
		t.Errorf("up = %q, want the newest entry", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Value() != ":sync" {
		t.Errorf("up past the start = %q, want the oldest entry", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Value() != ":" {
		t.Errorf("down past the end = %q, want an empty prompt", m.Value())
	}
}

func TestStatusBar(t *testing.T) {
	m := NewStatusBar()
	m.SetWidth(30)

	m.SetMessage("boom", true)
	if m.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want error", m.Severity())
	}
	m.Set("Loaded 12 icons", SeveritySuccess)
	m.SetBadge("github")

	view := m.View()
	if !strings.Contains(view, "Loaded 12 icons") || !strings.Contains(view, "github") {
		t.Errorf("View() = %q", view)
	}

	m.Set(strings.Repeat("x", 80), SeverityInfo)
	if view := m.View(); !strings.Contains(view, "...") {
		t.Errorf("long messages should be truncated: %q", view)
	}

	m.ClearMessage()
	if m.Message() != "" || m.Severity() != SeverityInfo {
		t.Error("ClearMessage() should reset the bar")
	}
}

func TestTopBarContext(t *testing.T) {
	m := NewTopBar()
	m.SetWidth(140)
	m.SetProvider("Azure DevOps", false)
	m.SetRepository("Icons", "release")
	m.SetCounts(40, 3)
	m.SetSync(SyncFailed)
	m.SetShortcuts([]string{"<r> Sync", "broken"})

	view := m.View()
	for _, want := range []string{"Icon Bridge", "Azure DevOps (not connected)", "Icons@release", "3 of 40", "FAILED", "<r>"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() is missing %q:\n%s", want, view)
		}
	}
}
