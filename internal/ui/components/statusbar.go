package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityProgress
	SeverityError
)

type StatusBarModel struct {
	width    int
	message  string
	severity Severity
	badge    string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	severity := SeverityInfo
	if isError {
		severity = SeverityError
	}
	m.Set(message, severity)
}

func (m *StatusBarModel) Set(message string, severity Severity) {
	m.message = message
	m.severity = severity
}

// SetBadge sets the right-aligned text, usually the sync state of the
// selected provider.
func (m *StatusBarModel) SetBadge(badge string) {
	m.badge = badge
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.severity = SeverityInfo
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) Severity() Severity {
	return m.severity
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	badge := ""
	if m.badge != "" {
		badge = m.badge + " "
	}

	room := m.width - lipgloss.Width(badge)
	if w := lipgloss.Width(content); w > room && room > 3 {
		content = truncateRunes(content, room-3) + "..."
	} else if w < room {
		content += strings.Repeat(" ", room-w)
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(severityColor(m.severity)).
		Width(m.width)

	return style.Render(content + badge)
}

func severityColor(severity Severity) lipgloss.Color {
	switch severity {
	case SeverityError:
		return lipgloss.Color("#991B1B")
	case SeveritySuccess:
		return lipgloss.Color("#065F46")
	case SeverityProgress:
		return lipgloss.Color("#1E3A8A")
	default:
		return lipgloss.Color("#374151")
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if n < 0 {
		n = 0
	}
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
