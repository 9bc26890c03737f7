package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/ui"
)

func runTUI(ctx context.Context, flags *globalFlags) error {
	bridge := ui.NewBridge()
	rt, err := newRuntime(ctx, flags, bridge)
	if err != nil {
		return err
	}
	defer logger.Close()

	rt.doc.OnNotify(bridge.Notify)

	model := ui.NewModel(ctx, rt.app, ui.Options{InsertSize: rt.settings.DefaultSize})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
