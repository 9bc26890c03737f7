package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/naming"
)

// PreviewState tracks what is known about an icon's markup.
type PreviewState int

const (
	PreviewNone PreviewState = iota
	PreviewReady
	PreviewFailed
)

type preview struct {
	state  PreviewState
	bytes  int
	width  float64
	height float64
	err    string
}

func previewIndicator(p preview) string {
	switch p.state {
	case PreviewReady:
		return "●"
	case PreviewFailed:
		return "✗"
	default:
		return " "
	}
}

type IconsViewModel struct {
	table table.Model

	// Source data as published by the last sync.
	sourceIcons []domain.IconSummary

	// Search results when a filter is active; nil otherwise.
	results []domain.IconSummary

	visible  []domain.IconSummary
	previews map[string]preview

	width       int
	height      int
	filterInput textinput.Model
	filtering   bool
	filterText  string
}

func NewIconsView() *IconsViewModel {
	t := table.New(
		table.WithColumns(iconColumns(40)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#0A84FF")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Search by title, name or tag..."
	ti.CharLimit = 100

	return &IconsViewModel{
		table:       t,
		filterInput: ti,
		previews:    make(map[string]preview),
	}
}

const (
	previewWidth  = 2
	variantWidth  = 8
	tagWidth      = 18
	pathWidth     = 36
	minTitleWidth = 16
	maxTitleWidth = 60
)

func iconColumns(titleWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: previewWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "Variant", Width: variantWidth},
		{Title: "Tag", Width: tagWidth},
		{Title: "Path", Width: pathWidth},
	}
}

func (m *IconsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-17))

	fixed := previewWidth + variantWidth + tagWidth + pathWidth
	m.table.SetColumns(iconColumns(clamp(width-fixed-2, minTitleWidth, maxTitleWidth)))
	m.rebuild()
}

// SetIcons replaces the library. Previews of icons that are gone are dropped.
func (m *IconsViewModel) SetIcons(icons []domain.IconSummary) {
	m.sourceIcons = append([]domain.IconSummary(nil), icons...)
	keep := make(map[string]bool, len(icons))
	for _, icon := range icons {
		keep[icon.ID] = true
	}
	for id := range m.previews {
		if !keep[id] {
			delete(m.previews, id)
		}
	}
	if m.filterText == "" {
		m.results = nil
	}
	m.rebuild()
}

// SetResults shows search results for query in place of the full library.
func (m *IconsViewModel) SetResults(query string, results []domain.IconSummary) {
	m.filterText = strings.TrimSpace(query)
	if !m.filtering {
		m.filterInput.SetValue(m.filterText)
	}
	if m.filterText == "" {
		m.results = nil
	} else {
		m.results = append([]domain.IconSummary{}, results...)
	}
	m.rebuild()
}

func (m *IconsViewModel) SetPreview(iconID, markup string) {
	p := preview{state: PreviewReady, bytes: len(markup)}
	if root, err := canvas.ParseSVG(markup); err == nil {
		p.width, p.height = root.Width(), root.Height()
	}
	m.previews[iconID] = p
	m.rebuild()
}

func (m *IconsViewModel) SetPreviewFailed(iconID, message string) {
	m.previews[iconID] = preview{state: PreviewFailed, err: message}
	m.rebuild()
}

func (m *IconsViewModel) Preview(iconID string) PreviewState {
	return m.previews[iconID].state
}

func (m *IconsViewModel) rebuild() {
	source := m.sourceIcons
	if m.results != nil {
		source = m.results
	}
	m.visible = source
	m.table.SetRows(m.iconsToRows(source))
	if cursor := m.table.Cursor(); cursor >= len(source) && len(source) > 0 {
		m.table.SetCursor(len(source) - 1)
	}
}

func (m *IconsViewModel) iconsToRows(icons []domain.IconSummary) []table.Row {
	rows := make([]table.Row, len(icons))
	titleWidth := m.table.Columns()[1].Width

	for i, icon := range icons {
		_, variant := naming.ExtractIconBaseAndVariant(naming.IconNameFromPath(icon.Path))
		rows[i] = table.Row{
			previewIndicator(m.previews[icon.ID]),
			truncateString(icon.DisplayLabel(), titleWidth),
			string(variant),
			truncateString(icon.Tag, tagWidth),
			truncateString(icon.Path, pathWidth),
		}
	}
	return rows
}

// VisibleIDs returns the ids of the rows currently shown, in order.
func (m *IconsViewModel) VisibleIDs() []string {
	ids := make([]string, len(m.visible))
	for i, icon := range m.visible {
		ids[i] = icon.ID
	}
	return ids
}

func (m *IconsViewModel) Total() int {
	return len(m.sourceIcons)
}

func (m *IconsViewModel) Shown() int {
	return len(m.visible)
}

func (m *IconsViewModel) GetSelectedIcon() *domain.IconSummary {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}
	icon := m.visible[idx]
	return &icon
}

func (m *IconsViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

func (m *IconsViewModel) ActivateFilter() {
	m.filtering = true
	m.filterInput.SetValue(m.filterText)
	m.filterInput.CursorEnd()
	m.filterInput.Focus()
}

func (m *IconsViewModel) DeactivateFilter() {
	m.filtering = false
	m.filterInput.Blur()
}

func (m *IconsViewModel) ClearFilter() {
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.filterInput.Blur()
	m.results = nil
	m.rebuild()
}

func (m *IconsViewModel) IsFiltering() bool {
	return m.filtering
}

// UpdateFilterInput feeds a key to the filter and returns the new query.
func (m *IconsViewModel) UpdateFilterInput(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m.filterInput.Value(), cmd
}

func (m *IconsViewModel) GetFilterText() string {
	return m.filterText
}

func (m *IconsViewModel) View() string {
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\n" + m.helpText())

	if len(m.sourceIcons) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			Padding(1, 2).
			Render("No icons loaded. Connect a provider with tab, then sync with r.")
		return empty + help
	}

	content := m.table.View() + "\n" + m.detailView()
	if m.filtering {
		filterStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
		content += "\n" + filterStyle.Render("Search: ") + m.filterInput.View()
	}
	return content + help
}

func (m *IconsViewModel) detailView() string {
	icon := m.GetSelectedIcon()
	if icon == nil {
		return ""
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	base, variant := naming.ExtractIconBaseAndVariant(naming.IconNameFromPath(icon.Path))
	lines := []string{
		label.Render("ID: ") + value.Render(icon.ID),
		label.Render("Layer: ") + value.Render(naming.FormatIconName(base, variant)),
	}
	switch p := m.previews[icon.ID]; p.state {
	case PreviewReady:
		lines = append(lines, label.Render("Preview: ")+
			value.Render(fmt.Sprintf("%.0f×%.0f, %d bytes", p.width, p.height, p.bytes)))
	case PreviewFailed:
		lines = append(lines, label.Render("Preview: ")+
			lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Render(p.err))
	default:
		lines = append(lines, label.Render("Preview: ")+value.Render("not loaded"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m *IconsViewModel) helpText() string {
	if m.filtering {
		return "Type to search | Enter: Keep | Esc: Close"
	}
	base := "Enter: Insert | y: Copy SVG | p: Previews | o/f/b: Variant | r: Sync | /: Search"
	if m.filterText != "" {
		return base + " | Esc: Clear search"
	}
	return base
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
