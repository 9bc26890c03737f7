package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandHelp
	CommandSync
	CommandProvider
	CommandConfigure
	CommandVariant
	CommandInsert
	CommandCopy
	CommandPreviews
	CommandSearch
	CommandLogs
	CommandIcons
	CommandProviders
)

type Command struct {
	Type CommandType
	Name string
	Args []string
}

var commandAliases = map[string]CommandType{
	"q":         CommandQuit,
	"quit":      CommandQuit,
	"h":         CommandHelp,
	"help":      CommandHelp,
	"sync":      CommandSync,
	"retry":     CommandSync,
	"provider":  CommandProvider,
	"use":       CommandProvider,
	"configure": CommandConfigure,
	"config":    CommandConfigure,
	"v":         CommandVariant,
	"variant":   CommandVariant,
	"i":         CommandInsert,
	"insert":    CommandInsert,
	"copy":      CommandCopy,
	"yank":      CommandCopy,
	"previews":  CommandPreviews,
	"preview":   CommandPreviews,
	"s":         CommandSearch,
	"search":    CommandSearch,
	"logs":      CommandLogs,
	"icons":     CommandIcons,
	"providers": CommandProviders,
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	parts := strings.Fields(strings.TrimPrefix(input, ":"))
	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	name := strings.ToLower(parts[0])
	cmdType, ok := commandAliases[name]
	if !ok {
		cmdType = CommandUnknown
	}
	return Command{Type: cmdType, Name: name, Args: parts[1:]}
}

// KeyHandler reacts to a key press and returns the updated model.
type KeyHandler func(m Model) (Model, tea.Cmd)

// CommandHandler runs a ":" command.
type CommandHandler func(m Model, args []string) (Model, tea.Cmd)

type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     KeyHandler
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}

type CommandDef struct {
	Usage       string
	Description string
	Handler     CommandHandler
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
	commands    map[CommandType]*CommandDef
}

var allViews = []ViewState{ViewIcons, ViewProviders}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{commands: make(map[CommandType]*CommandDef)}

	r.bind([]string{"ctrl+c"}, "Quit", allViews, handleForceQuitKey)
	r.bind([]string{"q"}, "Quit / back", allViews, handleQuitKey)
	r.bind([]string{":"}, "Command", allViews, handleCommandKey)
	r.bind([]string{"tab"}, "Switch view", allViews, handleSwitchViewKey)
	r.bind([]string{"r"}, "Sync", allViews, handleSyncKey)
	r.bind([]string{"l"}, "Logs", allViews, handleLogsKey)
	r.bind([]string{"?"}, "Help", allViews, handleHelpKey)

	icons := []ViewState{ViewIcons}
	r.bind([]string{"enter"}, "Insert icon", icons, handleInsertKey)
	r.bind([]string{"y"}, "Copy SVG", icons, handleCopyKey)
	r.bind([]string{"p"}, "Load previews", icons, handlePreviewsKey)
	r.bind([]string{"/"}, "Search", icons, handleSearchKey)
	r.bind([]string{"esc"}, "Clear search", icons, handleClearSearchKey)
	r.bind([]string{"o"}, "Outline variant", icons, variantKey("outline"))
	r.bind([]string{"f"}, "Fill variant", icons, variantKey("fill"))
	r.bind([]string{"b"}, "Bulk variant", icons, variantKey("bulk"))

	providers := []ViewState{ViewProviders}
	r.bind([]string{"enter", "e"}, "Configure", providers, handleConfigureKey)
	r.bind([]string{"s"}, "Use provider", providers, handleSelectProviderKey)

	r.register(CommandQuit, ":quit", "Exit Icon Bridge", func(m Model, _ []string) (Model, tea.Cmd) {
		return m, tea.Quit
	})
	r.register(CommandHelp, ":help", "Show commands and keys", func(m Model, _ []string) (Model, tea.Cmd) {
		m.showHelp = true
		return m, nil
	})
	r.register(CommandSync, ":sync", "Sync the selected provider", func(m Model, _ []string) (Model, tea.Cmd) {
		return handleSyncKey(m)
	})
	r.register(CommandProvider, ":provider github|azure", "Use a connected provider", executeProvider)
	r.register(CommandConfigure, ":configure github|azure", "Edit provider settings", executeConfigure)
	r.register(CommandVariant, ":variant outline|fill|bulk [size]", "Swap the selected canvas icons", executeVariant)
	r.register(CommandInsert, ":insert [size]", "Insert the highlighted icon", executeInsert)
	r.register(CommandCopy, ":copy", "Copy the highlighted icon's SVG", func(m Model, _ []string) (Model, tea.Cmd) {
		return handleCopyKey(m)
	})
	r.register(CommandPreviews, ":previews", "Load previews for the listed icons", func(m Model, _ []string) (Model, tea.Cmd) {
		return handlePreviewsKey(m)
	})
	r.register(CommandSearch, ":search <query>", "Search the library", executeSearch)
	r.register(CommandLogs, ":logs", "Show session logs", func(m Model, _ []string) (Model, tea.Cmd) {
		return handleLogsKey(m)
	})
	r.register(CommandIcons, ":icons", "Show the icon list", func(m Model, _ []string) (Model, tea.Cmd) {
		return m.switchTo(ViewIcons), nil
	})
	r.register(CommandProviders, ":providers", "Show provider settings", func(m Model, _ []string) (Model, tea.Cmd) {
		return m.switchTo(ViewProviders), nil
	})

	return r
}

func (r *CommandRegistry) bind(keys []string, description string, views []ViewState, handler KeyHandler) {
	r.keyBindings = append(r.keyBindings, &KeyBinding{
		Keys:        keys,
		Description: description,
		AvailableIn: views,
		Handler:     handler,
	})
}

func (r *CommandRegistry) register(cmdType CommandType, usage, description string, handler CommandHandler) {
	r.commands[cmdType] = &CommandDef{Usage: usage, Description: description, Handler: handler}
}

// HandleKey runs the first binding for key in the current view.
func (r *CommandRegistry) HandleKey(m Model, key string) (Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

func (r *CommandRegistry) ExecuteCommand(m Model, cmd Command) (Model, tea.Cmd) {
	def, ok := r.commands[cmd.Type]
	if !ok {
		if cmd.Name == "" {
			return m, nil
		}
		m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s (try :help)", cmd.Name), true)
		return m, nil
	}
	return def.Handler(m, cmd.Args)
}

func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if !binding.availableIn(state) || binding.Keys[0] == "ctrl+c" {
			continue
		}
		shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", binding.Keys[0], binding.Description))
	}
	return shortcuts
}

// Usage lists every ":" command, sorted by usage string.
func (r *CommandRegistry) Usage() []string {
	lines := make([]string, 0, len(r.commands))
	for _, def := range r.commands {
		lines = append(lines, fmt.Sprintf("%-36s %s", def.Usage, def.Description))
	}
	sort.Strings(lines)
	return lines
}
