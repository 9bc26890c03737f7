package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SyncStatus is the last known state of the selected provider's index.
type SyncStatus string

const (
	SyncIdle    SyncStatus = ""
	SyncRunning SyncStatus = "syncing"
	SyncReady   SyncStatus = "ready"
	SyncFailed  SyncStatus = "failed"
)

type TopBarModel struct {
	width      int
	provider   string
	connected  bool
	repository string
	branch     string
	iconCount  int
	shownCount int
	sync       SyncStatus
	view       string
	shortcuts  []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleAccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0A84FF")).Bold(true)
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetProvider(name string, connected bool) {
	m.provider = name
	m.connected = connected
}

func (m *TopBarModel) SetRepository(repository, branch string) {
	m.repository = repository
	m.branch = branch
}

// SetCounts records the library size and how many rows the current filter
// leaves visible.
func (m *TopBarModel) SetCounts(total, shown int) {
	m.iconCount = total
	m.shownCount = shown
}

func (m *TopBarModel) SetSync(status SyncStatus) {
	m.sync = status
}

func (m *TopBarModel) SetView(view string) {
	m.view = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	topSection := []string{titleAccentStyle.Render("Icon Bridge"), ""}

	const fixedRows = 5
	const contextColWidth = 48
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string
		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}
		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}
		topSection = append(topSection, line)
	}

	return titleStyle.Width(m.width).Render(strings.Join(topSection, "\n"))
}

func (m *TopBarModel) buildContextInfo() []string {
	provider := "none"
	if m.provider != "" {
		provider = m.provider
		if !m.connected {
			provider += " (not connected)"
		}
	}

	repository := "-"
	if m.repository != "" {
		repository = m.repository
		if m.branch != "" {
			repository = fmt.Sprintf("%s@%s", repository, m.branch)
		}
		if len(repository) > 36 {
			repository = repository[:33] + "..."
		}
	}

	icons := fmt.Sprintf("%d", m.iconCount)
	if m.shownCount != m.iconCount {
		icons = fmt.Sprintf("%d of %d", m.shownCount, m.iconCount)
	}

	view := m.view
	if view == "" {
		view = "Icons"
	}

	lines := []string{
		"🔌 " + labelStyle.Render("Provider: ") + valueWhiteStyle.Render(provider),
		"📦 " + labelStyle.Render("Repo: ") + valueWhiteStyle.Render(repository),
		"🖼  " + labelStyle.Render("Icons: ") + valueWhiteStyle.Render(icons),
		"🔄 " + labelStyle.Render("Sync: ") + syncBadge(m.sync),
		"🎯 " + labelStyle.Render("View: ") + valueWhiteStyle.Render(view),
	}
	return lines
}

func syncBadge(status SyncStatus) string {
	switch status {
	case SyncRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Render("SYNCING ◯")
	case SyncReady:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render("READY ✓")
	case SyncFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("FAILED ✗")
	default:
		return descGrayStyle.Render("idle")
	}
}

func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formatted []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		line := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formatted = append(formatted, line)
		if width := lipgloss.Width(line); width > maxWidth {
			maxWidth = width
		}
	}

	rows := 5
	if contextHeight > rows {
		rows = contextHeight
	}
	if len(formatted) <= rows {
		return formatted, nil, maxWidth
	}
	return formatted[:rows], formatted[rows:], maxWidth
}
