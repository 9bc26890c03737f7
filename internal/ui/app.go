package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/johanforsgren/iconbridge/internal/ui/components"
	"github.com/johanforsgren/iconbridge/internal/ui/views"
)

type ViewState int

const (
	ViewIcons ViewState = iota
	ViewProviders
)

func (s ViewState) String() string {
	if s == ViewProviders {
		return "Providers"
	}
	return "Icons"
}

// Backend is the part of the application core the terminal UI drives.
type Backend interface {
	Handle(ctx context.Context, cmd domain.Command) error
	Snapshot() domain.PublicState
	Search(query string) []domain.IconSummary
	Lookup(iconID string) (domain.IconDescriptor, error)
	LoadIcon(ctx context.Context, iconID string, descriptor domain.IconDescriptor) (string, error)
}

type Options struct {
	// InsertSize is the side length inserted icons are scaled to; zero keeps
	// the SVG's own size.
	InsertSize int
	Clipboard  func(text string) error
}

type Model struct {
	state           ViewState
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	iconsView       *views.IconsViewModel
	providersView   *views.ProvidersViewModel
	logsView        *views.LogsViewModel
	backend         Backend
	ctx             context.Context
	commandRegistry *CommandRegistry
	clipboard       func(text string) error
	insertSize      int
	showHelp        bool
	lastQuery       string
}

func NewModel(ctx context.Context, backend Backend, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	m := Model{
		state:           ViewIcons,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		iconsView:       views.NewIconsView(),
		providersView:   views.NewProvidersView(),
		logsView:        views.NewLogsView(),
		backend:         backend,
		ctx:             ctx,
		commandRegistry: NewCommandRegistry(),
		clipboard:       opts.Clipboard,
		insertSize:      opts.InsertSize,
	}
	m.applyState(backend.Snapshot())
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.run(domain.Command{Type: domain.CommandUIReady})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.iconsView.SetSize(msg.Width, msg.Height)
		m.providersView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if newModel, cmd, handled := m.handleKey(msg); handled {
			return newModel, cmd
		}

	case EventMsg:
		m = m.handleEvent(msg.Event)
		return m, nil

	case NoticeMsg:
		m.statusBar.Set(msg.Message, noticeSeverity(msg.Message))
		m.logsView.Refresh()
		return m, nil

	case HandledMsg:
		m.logsView.Refresh()
		return m, nil

	case ErrorMsg:
		m.statusBar.SetMessage(common.ExtractErrorMessage(msg.err), true)
		return m, nil

	case SuccessMsg:
		m.statusBar.Set(msg.message, components.SeveritySuccess)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewIcons:
		cmd = m.iconsView.Update(msg)
	case ViewProviders:
		cmd = m.providersView.Update(msg)
	}
	return m, cmd
}

// handleKey routes a key to whichever input currently owns the keyboard,
// then to the registry.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			newModel, cmd := m.handleCommand()
			return newModel, cmd, true
		case "esc":
			m.commandBar.Deactivate()
			return m, nil, true
		default:
			return m, m.commandBar.Update(msg), true
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil, true
		default:
			return m, m.logsView.Update(msg), true
		}
	}

	if m.showHelp {
		switch key {
		case "esc", "q", "?":
			m.showHelp = false
		case "ctrl+c":
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	if m.state == ViewProviders && m.providersView.IsEditing() {
		switch key {
		case "enter":
			newModel, cmd := m.saveProvider()
			return newModel, cmd, true
		case "esc":
			m.providersView.ExitEditMode()
			return m, nil, true
		default:
			return m, m.providersView.Update(msg), true
		}
	}

	if m.state == ViewIcons && m.iconsView.IsFiltering() {
		switch key {
		case "enter":
			m.iconsView.DeactivateFilter()
		case "esc":
			m.iconsView.ClearFilter()
			m.updateCounts()
		default:
			query, cmd := m.iconsView.UpdateFilterInput(msg)
			m.applySearch(query)
			return m, cmd, true
		}
		return m, nil, true
	}

	return m.commandRegistry.HandleKey(m, key)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.showHelp:
		content = m.helpView()
	case m.state == ViewProviders:
		content = m.providersView.View()
	default:
		content = m.iconsView.View()
	}

	topBar := m.topBar.View()
	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}
	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Commands"))
	b.WriteString("\n")
	for _, line := range m.commandRegistry.Usage() {
		b.WriteString(HelpKeyStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("Esc or ?: Close"))
	return BorderStyle.Render(b.String())
}

func (m Model) handleCommand() (Model, tea.Cmd) {
	input := m.commandBar.Submit()
	cmd := ParseCommand(input)
	if cmd.Name == "" {
		return m, nil
	}

	logger.Log("UI: Executing command: %s %v", cmd.Name, cmd.Args)
	return m.commandRegistry.ExecuteCommand(m, cmd)
}

func (m Model) handleEvent(event domain.Event) Model {
	switch event.Type {
	case domain.EventStateHydrate:
		m.applyState(event.PublicState)
	case domain.EventFetchStart:
		m.applyState(event.PublicState)
		m.topBar.SetSync(components.SyncRunning)
		m.statusBar.Set(fmt.Sprintf("Syncing %s...", providerName(event.Provider)), components.SeverityProgress)
	case domain.EventFetchSuccess:
		m.applyState(event.PublicState)
		m.topBar.SetSync(components.SyncReady)
		m.statusBar.Set(fmt.Sprintf("Loaded %d icons from %s", len(event.Icons), providerName(event.Provider)), components.SeveritySuccess)
	case domain.EventFetchFailed:
		m.applyState(event.PublicState)
		m.topBar.SetSync(components.SyncFailed)
		m.statusBar.Set(event.Error, components.SeverityError)
	case domain.EventIconPreview:
		m.iconsView.SetPreview(event.IconID, event.SVGMarkup)
	case domain.EventIconPreviewFailed:
		m.iconsView.SetPreviewFailed(event.IconID, event.Error)
	case domain.EventPreviewsComplete:
		m.statusBar.Set(fmt.Sprintf("Loaded previews for %d icon(s)", len(event.RequestedIDs)), components.SeveritySuccess)
	case domain.EventSearchResults:
		m.iconsView.SetResults(m.lastQuery, event.Results)
		m.updateCounts()
	}
	m.logsView.Refresh()
	return m
}

// applyState refreshes every view from a published snapshot.
func (m Model) applyState(state domain.PublicState) {
	m.iconsView.SetIcons(state.Icons)
	if query := m.iconsView.GetFilterText(); query != "" {
		m.iconsView.SetResults(query, m.backend.Search(query))
	}
	m.providersView.SetConfig(state.SelectedProvider, state.Providers)

	cfg := state.Providers[state.SelectedProvider]
	m.topBar.SetProvider(providerName(state.SelectedProvider), cfg.Connected)
	m.topBar.SetRepository(cfg.Repository, cfg.Branch)
	m.updateCounts()
}

func (m Model) applySearch(query string) {
	if strings.TrimSpace(query) == "" {
		m.iconsView.SetResults("", nil)
	} else {
		m.iconsView.SetResults(query, m.backend.Search(query))
	}
	m.updateCounts()
}

func (m Model) updateCounts() {
	m.topBar.SetCounts(m.iconsView.Total(), m.iconsView.Shown())
}

func (m Model) switchTo(state ViewState) Model {
	m.state = state
	m.showHelp = false
	m.updateShortcuts()
	return m
}

func (m Model) updateShortcuts() {
	m.topBar.SetView(m.state.String())
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

func (m Model) saveProvider() (Model, tea.Cmd) {
	kind := m.providersView.Editing()
	values := m.providersView.FormValues()
	m.providersView.ExitEditMode()

	m.statusBar.Set(fmt.Sprintf("Saving %s settings...", kind.DisplayName()), components.SeverityProgress)
	return m, m.run(domain.Command{
		Type:                domain.CommandSaveProvider,
		Provider:            string(kind),
		Values:              values,
		SetSelectedProvider: true,
	})
}

// run hands a command to the backend off the UI goroutine. Failures reach
// the status bar as notices.
func (m Model) run(cmd domain.Command) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return HandledMsg{Command: cmd.Type, Err: backend.Handle(ctx, cmd)}
	}
}

func (m Model) copySVG(icon domain.IconSummary) tea.Cmd {
	backend, ctx, write := m.backend, m.ctx, m.clipboard
	return func() tea.Msg {
		descriptor, err := backend.Lookup(icon.ID)
		if err != nil {
			return ErrorMsg{err: err}
		}
		markup, err := backend.LoadIcon(ctx, icon.ID, descriptor)
		if err != nil {
			logger.LogError("COPY_SVG", descriptor.Path, err)
			return ErrorMsg{err: err}
		}
		if err := write(markup); err != nil {
			logger.LogError("COPY_SVG", "clipboard", err)
			return ErrorMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return SuccessMsg{message: fmt.Sprintf("Copied %s to clipboard", icon.DisplayLabel())}
	}
}

func providerName(kind domain.ProviderKind) string {
	if kind == "" {
		return "no provider"
	}
	return kind.DisplayName()
}

func noticeSeverity(message string) components.Severity {
	switch {
	case strings.HasPrefix(message, "Inserted "):
		return components.SeveritySuccess
	case strings.HasPrefix(message, "Icon Bridge error:"),
		strings.HasPrefix(message, "Failed"),
		strings.HasPrefix(message, "Variant not found"):
		return components.SeverityError
	default:
		return components.SeverityInfo
	}
}

// EventMsg carries an event published by the application core.
type EventMsg struct {
	Event domain.Event
}

// NoticeMsg carries a notice raised on the canvas document.
type NoticeMsg struct {
	Message string
}

// HandledMsg reports that the backend finished a command.
type HandledMsg struct {
	Command domain.CommandType
	Err     error
}

type ErrorMsg struct {
	err error
}

type SuccessMsg struct {
	message string
}
