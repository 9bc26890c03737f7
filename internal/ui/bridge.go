package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
)

// Bridge forwards core events and canvas notices into a running program.
// It is created before the program so it can be handed to the core, and
// attached once the program exists.
type Bridge struct {
	mu      sync.RWMutex
	program *tea.Program
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(program *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = program
}

func (b *Bridge) Publish(event domain.Event) {
	b.send(EventMsg{Event: event})
}

func (b *Bridge) Notify(message string) {
	b.send(NoticeMsg{Message: message})
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	program := b.program
	b.mu.RUnlock()
	if program == nil {
		logger.Log("UI: dropped %T before the program started", msg)
		return
	}
	program.Send(msg)
}
