package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/iconbridge/internal/domain"
)

type ProviderItem struct {
	kind     domain.ProviderKind
	cfg      domain.ProviderConfig
	selected bool
}

func (i ProviderItem) FilterValue() string { return i.kind.DisplayName() }
func (i ProviderItem) Title() string {
	indicator := " "
	if i.selected {
		indicator = "●"
	}
	status := "not connected"
	if i.cfg.Connected {
		status = "connected"
	}
	return fmt.Sprintf("%s %s (%s)", indicator, i.kind.DisplayName(), status)
}
func (i ProviderItem) Description() string {
	if i.cfg.Repository == "" {
		return "no repository"
	}
	if i.kind == domain.ProviderAzure && i.cfg.Project != "" {
		return fmt.Sprintf("%s / %s @ %s", i.cfg.Project, i.cfg.Repository, i.cfg.Branch)
	}
	return fmt.Sprintf("%s @ %s", i.cfg.Repository, i.cfg.Branch)
}

type ProviderMode int

const (
	ProviderModeList ProviderMode = iota
	ProviderModeEdit
)

// formField binds a text input to the settings key it writes.
type formField struct {
	key   string
	label string
	input textinput.Model
}

type ProvidersViewModel struct {
	list    list.Model
	Mode    ProviderMode
	editing domain.ProviderKind
	fields  []formField
	focus   int
	width   int
	height  int
}

func NewProvidersView() *ProvidersViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Icon Providers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &ProvidersViewModel{
		list: l,
		Mode: ProviderModeList,
	}
}

func (m *ProvidersViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height-12))
}

// SetConfig lists every known provider, keeping the cursor on the same row.
func (m *ProvidersViewModel) SetConfig(selected domain.ProviderKind, providers map[domain.ProviderKind]domain.ProviderConfig) {
	items := make([]list.Item, 0, len(domain.ProviderKinds))
	for _, kind := range domain.ProviderKinds {
		items = append(items, ProviderItem{kind: kind, cfg: providers[kind], selected: kind == selected})
	}
	cursor := m.list.Index()
	m.list.SetItems(items)
	if cursor < len(items) {
		m.list.Select(cursor)
	}
}

func (m *ProvidersViewModel) GetSelectedProvider() (domain.ProviderKind, domain.ProviderConfig, bool) {
	item, ok := m.list.SelectedItem().(ProviderItem)
	if !ok {
		return "", domain.ProviderConfig{}, false
	}
	return item.kind, item.cfg, true
}

// EnterEditMode opens the form for kind, prefilled from cfg.
func (m *ProvidersViewModel) EnterEditMode(kind domain.ProviderKind, cfg domain.ProviderConfig) {
	m.Mode = ProviderModeEdit
	m.editing = kind
	m.focus = 0

	m.fields = []formField{
		newField("pat", "Personal access token", cfg.PAT, true),
	}
	if kind == domain.ProviderAzure {
		m.fields = append(m.fields,
			newField("organizationUrl", "Organization URL (https://dev.azure.com/org)", cfg.OrganizationURL, false),
			newField("project", "Project", cfg.Project, false),
			newField("repository", "Repository (name or clone URL)", cfg.Repository, false),
		)
	} else {
		m.fields = append(m.fields,
			newField("repository", "Repository (owner/repo or URL)", cfg.Repository, false),
		)
	}
	m.fields = append(m.fields, newField("branch", "Branch", cfg.Branch, false))
	m.focusCurrent()
}

func newField(key, label, value string, secret bool) formField {
	input := textinput.New()
	input.Placeholder = label
	input.CharLimit = 256
	input.SetValue(value)
	if secret {
		input.EchoMode = textinput.EchoPassword
	}
	return formField{key: key, label: label, input: input}
}

func (m *ProvidersViewModel) ExitEditMode() {
	m.Mode = ProviderModeList
	m.fields = nil
}

func (m *ProvidersViewModel) IsEditing() bool {
	return m.Mode == ProviderModeEdit
}

func (m *ProvidersViewModel) Editing() domain.ProviderKind {
	return m.editing
}

// FormValues returns the form content keyed by settings field.
func (m *ProvidersViewModel) FormValues() map[string]string {
	values := make(map[string]string, len(m.fields))
	for _, field := range m.fields {
		values[field.key] = strings.TrimSpace(field.input.Value())
	}
	return values
}

func (m *ProvidersViewModel) Update(msg tea.Msg) tea.Cmd {
	if m.Mode == ProviderModeEdit {
		return m.updateEditMode(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *ProvidersViewModel) updateEditMode(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.moveFocus(1)
			return nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return nil
		}
	}
	if len(m.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return cmd
}

func (m *ProvidersViewModel) moveFocus(step int) {
	if len(m.fields) == 0 {
		return
	}
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + step + len(m.fields)) % len(m.fields)
	m.focusCurrent()
}

func (m *ProvidersViewModel) focusCurrent() {
	if m.focus < len(m.fields) {
		m.fields[m.focus].input.Focus()
	}
}

func (m *ProvidersViewModel) View() string {
	if m.Mode == ProviderModeEdit {
		return m.viewEditMode()
	}
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\nEnter: Configure | s: Use provider | r: Sync | tab: Icons")

	return m.list.View() + help
}

func (m *ProvidersViewModel) viewEditMode() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0A84FF")).
		Bold(true).
		Render(fmt.Sprintf("Configure %s\n\n", m.editing.DisplayName()))
	b.WriteString(title)

	for _, field := range m.fields {
		b.WriteString(field.label + ":\n")
		b.WriteString(field.input.View() + "\n\n")
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("Tab: Next | Shift+Tab: Previous | Enter: Save and sync | Esc: Cancel")
	b.WriteString(help)

	return b.String()
}
