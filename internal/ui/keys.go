package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/ui/components"
)

const noticeChooseIcon = "Please choose an icon first."

func handleForceQuitKey(m Model) (Model, tea.Cmd) {
	return m, tea.Quit
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	if m.state == ViewProviders {
		return m.switchTo(ViewIcons), nil
	}
	return m, tea.Quit
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleSwitchViewKey(m Model) (Model, tea.Cmd) {
	if m.state == ViewIcons {
		return m.switchTo(ViewProviders), nil
	}
	return m.switchTo(ViewIcons), nil
}

func handleSyncKey(m Model) (Model, tea.Cmd) {
	m.statusBar.Set("Syncing...", components.SeverityProgress)
	return m, m.run(domain.Command{Type: domain.CommandRetrySync})
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleHelpKey(m Model) (Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	return m, nil
}

func handleInsertKey(m Model) (Model, tea.Cmd) {
	return insertSelected(m, m.insertSize)
}

func insertSelected(m Model, size int) (Model, tea.Cmd) {
	icon := m.iconsView.GetSelectedIcon()
	if icon == nil {
		m.statusBar.SetMessage(noticeChooseIcon, true)
		return m, nil
	}
	return m, m.run(domain.Command{
		Type:   domain.CommandInsertIcon,
		IconID: icon.ID,
		Title:  icon.Title,
		Name:   icon.Name,
		Size:   size,
	})
}

func handleCopyKey(m Model) (Model, tea.Cmd) {
	icon := m.iconsView.GetSelectedIcon()
	if icon == nil {
		m.statusBar.SetMessage(noticeChooseIcon, true)
		return m, nil
	}
	return m, m.copySVG(*icon)
}

func handlePreviewsKey(m Model) (Model, tea.Cmd) {
	ids := m.iconsView.VisibleIDs()
	if len(ids) == 0 {
		m.statusBar.SetMessage("No icons to preview.", true)
		return m, nil
	}
	m.statusBar.Set("Loading previews...", components.SeverityProgress)
	return m, m.run(domain.Command{Type: domain.CommandFetchPreviews, IconIDs: ids})
}

func handleSearchKey(m Model) (Model, tea.Cmd) {
	m.iconsView.ActivateFilter()
	return m, nil
}

func handleClearSearchKey(m Model) (Model, tea.Cmd) {
	if m.iconsView.GetFilterText() != "" {
		m.iconsView.ClearFilter()
		m.updateCounts()
	}
	return m, nil
}

func variantKey(variant string) KeyHandler {
	return func(m Model) (Model, tea.Cmd) {
		return m, m.run(domain.Command{Type: domain.CommandApplyVariant, Variant: variant})
	}
}

func handleConfigureKey(m Model) (Model, tea.Cmd) {
	kind, cfg, ok := m.providersView.GetSelectedProvider()
	if !ok {
		return m, nil
	}
	m.providersView.EnterEditMode(kind, cfg)
	return m, nil
}

func handleSelectProviderKey(m Model) (Model, tea.Cmd) {
	kind, _, ok := m.providersView.GetSelectedProvider()
	if !ok {
		return m, nil
	}
	return m, m.run(domain.Command{Type: domain.CommandSelectProvider, Provider: string(kind)})
}

func parseProviderArg(args []string) (domain.ProviderKind, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: provider github|azure")
	}
	kind, ok := domain.ParseProviderKind(strings.ToLower(args[0]))
	if !ok {
		return "", fmt.Errorf("unknown provider %q", args[0])
	}
	return kind, nil
}

func parseSizeArg(args []string, index int) (int, error) {
	if len(args) <= index {
		return 0, nil
	}
	size, err := strconv.Atoi(args[index])
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid size %q", args[index])
	}
	return size, nil
}

func executeProvider(m Model, args []string) (Model, tea.Cmd) {
	kind, err := parseProviderArg(args)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	return m, m.run(domain.Command{Type: domain.CommandSelectProvider, Provider: string(kind)})
}

func executeConfigure(m Model, args []string) (Model, tea.Cmd) {
	kind, err := parseProviderArg(args)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	m = m.switchTo(ViewProviders)
	m.providersView.EnterEditMode(kind, m.backend.Snapshot().Providers[kind])
	return m, nil
}

func executeVariant(m Model, args []string) (Model, tea.Cmd) {
	if len(args) == 0 {
		m.statusBar.SetMessage("usage: variant outline|fill|bulk [size]", true)
		return m, nil
	}
	size, err := parseSizeArg(args, 1)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	return m, m.run(domain.Command{Type: domain.CommandApplyVariant, Variant: args[0], Size: size})
}

func executeInsert(m Model, args []string) (Model, tea.Cmd) {
	size, err := parseSizeArg(args, 0)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	if size == 0 {
		size = m.insertSize
	}
	return insertSelected(m, size)
}

func executeSearch(m Model, args []string) (Model, tea.Cmd) {
	m.lastQuery = strings.Join(args, " ")
	m = m.switchTo(ViewIcons)
	return m, m.run(domain.Command{Type: domain.CommandSearchIcons, Query: m.lastQuery})
}
