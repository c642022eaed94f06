package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/curioloop/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EngineMsg reports that an engine operation issued by a screen finished.
// The app re-reads the engine state when it sees one.
type EngineMsg struct {
	Op  string
	Err error
}

// Do runs fn as a command and reports its outcome as an EngineMsg.
func Do(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return EngineMsg{Op: op, Err: fn()}
	}
}
