package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/ui/components"
	"github.com/johanforsgren/iconbridge/internal/ui/views"
)

type mockBackend struct {
	mu          sync.Mutex
	snapshot    domain.PublicState
	commands    []domain.Command
	handleErr   error
	markup      string
	loadErr     error
	descriptors map[string]domain.IconDescriptor
}

func (b *mockBackend) Handle(ctx context.Context, cmd domain.Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, cmd)
	return b.handleErr
}

func (b *mockBackend) Snapshot() domain.PublicState {
	return b.snapshot
}

func (b *mockBackend) Search(query string) []domain.IconSummary {
	var out []domain.IconSummary
	for _, icon := range b.snapshot.Icons {
		if strings.Contains(strings.ToLower(icon.DisplayLabel()), strings.ToLower(query)) {
			out = append(out, icon)
		}
	}
	return out
}

func (b *mockBackend) Lookup(iconID string) (domain.IconDescriptor, error) {
	descriptor, ok := b.descriptors[iconID]
	if !ok {
		return domain.IconDescriptor{}, errors.New("Icon metadata not found. Please sync again.")
	}
	return descriptor, nil
}

func (b *mockBackend) LoadIcon(ctx context.Context, iconID string, descriptor domain.IconDescriptor) (string, error) {
	return b.markup, b.loadErr
}

func (b *mockBackend) lastCommand(t *testing.T) domain.Command {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.commands) == 0 {
		t.Fatal("expected a command to reach the backend")
	}
	return b.commands[len(b.commands)-1]
}

func newMockBackend() *mockBackend {
	icons := []domain.IconSummary{
		{ID: "github:Icons/bell-outline.svg", Path: "Icons/bell-outline.svg", Name: "bell-outline", Title: "Bell"},
		{ID: "github:Icons/home-fill.svg", Path: "Icons/home-fill.svg", Name: "home-fill", Title: "Home"},
	}
	return &mockBackend{
		snapshot: domain.PublicState{
			SelectedProvider: domain.ProviderGitHub,
			Providers: map[domain.ProviderKind]domain.ProviderConfig{
				domain.ProviderGitHub: {Connected: true, PAT: "ghp_x", Repository: "acme/icons", Branch: "main"},
				domain.ProviderAzure: {
					Branch:          "main",
					OrganizationURL: "https://dev.azure.com/contoso",
					Project:         "Design",
				},
			},
			Icons: icons,
		},
		markup: `<svg width="24" height="24"></svg>`,
		descriptors: map[string]domain.IconDescriptor{
			icons[0].ID: {Provider: domain.ProviderGitHub, Path: icons[0].Path},
			icons[1].ID: {Provider: domain.ProviderGitHub, Path: icons[1].Path},
		},
	}
}

func createTestModel(backend *mockBackend) Model {
	m := NewModel(context.Background(), backend, Options{
		InsertSize: 24,
		Clipboard:  func(string) error { return nil },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		var updated tea.Model
		updated, cmd = m.Update(key)
		m = updated.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typed(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys
}

func TestNewModelAppliesSnapshot(t *testing.T) {
	m := createTestModel(newMockBackend())

	if m.iconsView.Total() != 2 || m.iconsView.Shown() != 2 {
		t.Errorf("icons = %d shown of %d, want 2 of 2", m.iconsView.Shown(), m.iconsView.Total())
	}
	if m.state != ViewIcons {
		t.Errorf("initial view = %v, want icons", m.state)
	}
	if view := m.View(); !strings.Contains(view, "Icon Bridge") {
		t.Error("expected the title in the rendered view")
	}
}

func TestInitSendsUIReady(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)

	msg := m.Init()()

	handled, ok := msg.(HandledMsg)
	if !ok || handled.Command != domain.CommandUIReady {
		t.Fatalf("Init() produced %#v", msg)
	}
	if backend.lastCommand(t).Type != domain.CommandUIReady {
		t.Errorf("backend received %+v", backend.lastCommand(t))
	}
}

func TestHandleInsertKey(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected insert command")
	}
	cmd()

	got := backend.lastCommand(t)
	want := domain.Command{
		Type:   domain.CommandInsertIcon,
		IconID: "github:Icons/bell-outline.svg",
		Title:  "Bell",
		Name:   "bell-outline",
		Size:   24,
	}
	if got.Type != want.Type || got.IconID != want.IconID || got.Title != want.Title || got.Name != want.Name || got.Size != want.Size {
		t.Errorf("command = %+v, want %+v", got, want)
	}
}

func TestHandleInsertKeyWithoutIcons(t *testing.T) {
	backend := newMockBackend()
	backend.snapshot.Icons = nil
	m := createTestModel(backend)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command without a highlighted icon")
	}
	if m.statusBar.Message() != noticeChooseIcon || m.statusBar.Severity() != components.SeverityError {
		t.Errorf("status = %q (%v)", m.statusBar.Message(), m.statusBar.Severity())
	}
}

func TestFetchEventsUpdateViews(t *testing.T) {
	m := createTestModel(newMockBackend())

	updated, _ := m.Update(EventMsg{Event: domain.Event{Type: domain.EventFetchStart, Provider: domain.ProviderGitHub}})
	m = updated.(Model)
	if m.statusBar.Message() != "Syncing GitHub..." || m.statusBar.Severity() != components.SeverityProgress {
		t.Errorf("start status = %q (%v)", m.statusBar.Message(), m.statusBar.Severity())
	}

	state := newMockBackend().snapshot
	state.Icons = append(state.Icons, domain.IconSummary{ID: "github:Icons/star.svg", Path: "Icons/star.svg", Name: "star", Title: "star"})
	updated, _ = m.Update(EventMsg{Event: domain.Event{Type: domain.EventFetchSuccess, Provider: domain.ProviderGitHub, PublicState: state}})
	m = updated.(Model)
	if m.iconsView.Total() != 3 {
		t.Errorf("icons after success = %d, want 3", m.iconsView.Total())
	}
	if m.statusBar.Message() != "Loaded 3 icons from GitHub" {
		t.Errorf("success status = %q", m.statusBar.Message())
	}

	updated, _ = m.Update(EventMsg{Event: domain.Event{Type: domain.EventFetchFailed, Provider: domain.ProviderGitHub, Error: "repository listing is truncated", PublicState: state}})
	m = updated.(Model)
	if m.statusBar.Message() != "repository listing is truncated" || m.statusBar.Severity() != components.SeverityError {
		t.Errorf("failed status = %q (%v)", m.statusBar.Message(), m.statusBar.Severity())
	}
	if m.iconsView.Total() != 3 {
		t.Errorf("a failed sync should keep the listing, got %d icons", m.iconsView.Total())
	}
}

func TestPreviewEvents(t *testing.T) {
	m := createTestModel(newMockBackend())

	events := []domain.Event{
		{Type: domain.EventIconPreview, IconID: "github:Icons/bell-outline.svg", SVGMarkup: `<svg width="32" height="32"></svg>`},
		{Type: domain.EventIconPreviewFailed, IconID: "github:Icons/home-fill.svg", Error: "404 Not Found"},
		{Type: domain.EventPreviewsComplete, RequestedIDs: []string{"github:Icons/bell-outline.svg", "github:Icons/home-fill.svg"}},
	}
	for _, event := range events {
		updated, _ := m.Update(EventMsg{Event: event})
		m = updated.(Model)
	}

	if got := m.iconsView.Preview("github:Icons/bell-outline.svg"); got != views.PreviewReady {
		t.Errorf("bell preview = %v, want ready", got)
	}
	if got := m.iconsView.Preview("github:Icons/home-fill.svg"); got != views.PreviewFailed {
		t.Errorf("home preview = %v, want failed", got)
	}
	if m.statusBar.Message() != "Loaded previews for 2 icon(s)" {
		t.Errorf("status = %q", m.statusBar.Message())
	}
}

func TestPreviewsKeyRequestsVisibleIcons(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)

	_, cmd := press(t, m, runes("p"))
	cmd()

	got := backend.lastCommand(t)
	if got.Type != domain.CommandFetchPreviews || len(got.IconIDs) != 2 {
		t.Errorf("command = %+v", got)
	}
}

func TestSearchWhileTyping(t *testing.T) {
	m := createTestModel(newMockBackend())

	m, _ = press(t, m, runes("/"))
	if !m.iconsView.IsFiltering() {
		t.Fatal("expected the search input to be active")
	}
	m, _ = press(t, m, typed("hom")...)
	if m.iconsView.Shown() != 1 || m.iconsView.GetSelectedIcon().Title != "Home" {
		t.Errorf("shown = %d, selected = %+v", m.iconsView.Shown(), m.iconsView.GetSelectedIcon())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.iconsView.IsFiltering() || m.iconsView.Shown() != 1 {
		t.Errorf("enter should keep the results, filtering=%v shown=%d", m.iconsView.IsFiltering(), m.iconsView.Shown())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.iconsView.Shown() != 2 || m.iconsView.GetFilterText() != "" {
		t.Errorf("esc should clear the search, shown=%d", m.iconsView.Shown())
	}
}

func TestCopyKeyWritesClipboard(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)
	var copied string
	m.clipboard = func(text string) error {
		copied = text
		return nil
	}

	_, cmd := press(t, m, runes("y"))
	msg := cmd()

	if _, ok := msg.(SuccessMsg); !ok {
		t.Fatalf("copy produced %#v", msg)
	}
	if copied != backend.markup {
		t.Errorf("clipboard = %q, want %q", copied, backend.markup)
	}
}

func TestCopyKeyReportsLoadError(t *testing.T) {
	backend := newMockBackend()
	backend.loadErr = errors.New("fetched file is not a valid SVG")
	m := createTestModel(backend)

	_, cmd := press(t, m, runes("y"))
	msg := cmd()

	updated, _ := m.Update(msg)
	m = updated.(Model)
	if m.statusBar.Message() != "fetched file is not a valid SVG" || m.statusBar.Severity() != components.SeverityError {
		t.Errorf("status = %q (%v)", m.statusBar.Message(), m.statusBar.Severity())
	}
}

func TestSaveProviderFromForm(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != ViewProviders {
		t.Fatalf("tab should open providers, got %v", m.state)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.providersView.IsEditing() || m.providersView.Editing() != domain.ProviderAzure {
		t.Fatalf("expected the azure form, editing=%v kind=%q", m.providersView.IsEditing(), m.providersView.Editing())
	}

	m, _ = press(t, m, typed("azure-pat")...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.providersView.IsEditing() {
		t.Error("form should close after saving")
	}
	cmd()

	got := backend.lastCommand(t)
	if got.Type != domain.CommandSaveProvider || got.Provider != "azure" || !got.SetSelectedProvider {
		t.Fatalf("command = %+v", got)
	}
	if got.Values["pat"] != "azure-pat" || got.Values["project"] != "Design" || got.Values["organizationUrl"] != "https://dev.azure.com/contoso" {
		t.Errorf("values = %v", got.Values)
	}
}

func TestQuitKey(t *testing.T) {
	m := createTestModel(newMockBackend())
	m = m.switchTo(ViewProviders)

	m, cmd := press(t, m, runes("q"))
	if m.state != ViewIcons || cmd != nil {
		t.Errorf("q in providers should go back, state=%v", m.state)
	}

	_, cmd = press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q in icons should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCommandBarRunsSync(t *testing.T) {
	backend := newMockBackend()
	m := createTestModel(backend)

	m, _ = press(t, m, runes(":"))
	if !m.commandBar.IsActive() {
		t.Fatal("expected the command bar to open")
	}
	m, _ = press(t, m, typed("sync")...)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.commandBar.IsActive() {
		t.Error("command bar should close after enter")
	}
	cmd()
	if backend.lastCommand(t).Type != domain.CommandRetrySync {
		t.Errorf("command = %+v", backend.lastCommand(t))
	}
}

func TestNoticeMessages(t *testing.T) {
	tests := []struct {
		message string
		want    components.Severity
	}{
		{"Inserted home-fill", components.SeveritySuccess},
		{"Icon Bridge error: Invalid provider.", components.SeverityError},
		{"Failed to insert icon: 404 Not Found", components.SeverityError},
		{"Variant not found for 1 icon(s): home (bulk)", components.SeverityError},
		{"Please choose an icon first.", components.SeverityInfo},
	}

	m := createTestModel(newMockBackend())
	for _, tt := range tests {
		updated, _ := m.Update(NoticeMsg{Message: tt.message})
		m = updated.(Model)
		if m.statusBar.Message() != tt.message || m.statusBar.Severity() != tt.want {
			t.Errorf("notice %q shown as %q (%v), want severity %v", tt.message, m.statusBar.Message(), m.statusBar.Severity(), tt.want)
		}
	}
}

func TestBridgeDropsMessagesBeforeAttach(t *testing.T) {
	bridge := NewBridge()

	bridge.Publish(domain.Event{Type: domain.EventStateHydrate})
	bridge.Notify("Inserted bell")
}
