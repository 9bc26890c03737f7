package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/iconbridge/internal/logger"
)

// LogFilter narrows the session log to one tag.
type LogFilter int

const (
	LogFilterAll LogFilter = iota
	LogFilterSync
	LogFilterErrors
)

func (f LogFilter) String() string {
	switch f {
	case LogFilterSync:
		return "sync"
	case LogFilterErrors:
		return "errors"
	default:
		return "all"
	}
}

func (f LogFilter) matches(entry logger.LogEntry) bool {
	switch f {
	case LogFilterSync:
		return strings.Contains(entry.Message, "[SYNC]")
	case LogFilterErrors:
		return strings.Contains(entry.Message, "[ERROR]")
	default:
		return true
	}
}

type LogsViewModel struct {
	width  int
	height int
	offset int
	active bool
	filter LogFilter
	logs   []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.reload()
	m.offset = m.maxOffset()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

// Refresh picks up entries logged since the view opened. The view stays
// pinned to the bottom when it was already there.
func (m *LogsViewModel) Refresh() {
	if !m.active {
		return
	}
	pinned := m.offset >= m.maxOffset()
	m.reload()
	if pinned || m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
}

func (m *LogsViewModel) Filter() LogFilter {
	return m.filter
}

func (m *LogsViewModel) Entries() []logger.LogEntry {
	return m.logs
}

func (m *LogsViewModel) reload() {
	all := logger.GetLogs()
	m.logs = m.logs[:0]
	for _, entry := range all {
		if m.filter.matches(entry) {
			m.logs = append(m.logs, entry)
		}
	}
}

func (m *LogsViewModel) visibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.visibleLines())
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
	case "pgup":
		m.offset = max(0, m.offset-m.visibleLines())
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.visibleLines())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
	case "f":
		m.filter = (m.filter + 1) % 3
		m.reload()
		m.offset = m.maxOffset()
	}
	return nil
}

func logColor(message string) string {
	switch {
	case strings.Contains(message, "[ERROR]"):
		return "#EF4444"
	case strings.Contains(message, "[SYNC]"):
		return "#60A5FA"
	case strings.Contains(message, "[FILE_WRITE]"):
		return "#F59E0B"
	case strings.Contains(message, "[FILE_OPEN]"):
		return "#10B981"
	default:
		return "#E5E7EB"
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0A84FF")).
		Bold(true).
		Padding(1, 0)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Logs (%d entries, %s)", len(m.logs), m.filter)))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		end := min(len(m.logs), m.offset+m.visibleLines())
		for _, entry := range m.logs[m.offset:end] {
			lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(logColor(entry.Message)))
			b.WriteString(lineStyle.Render(fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	scrollInfo := ""
	if len(m.logs) > m.visibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(len(m.logs), m.offset+m.visibleLines()), len(m.logs))
	}
	b.WriteString(helpStyle.Render("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | f: Filter | Esc: Close" + scrollInfo))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#0A84FF")).
		Padding(1, 2).
		Width(max(10, m.width-4))

	return boxStyle.Render(b.String())
}
