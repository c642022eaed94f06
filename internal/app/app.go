package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/router"
	"github.com/abhisek/curioloop/internal/screen"
	"github.com/abhisek/curioloop/internal/screens/chapter"
	"github.com/abhisek/curioloop/internal/screens/create"
	"github.com/abhisek/curioloop/internal/screens/dashboard"
	"github.com/abhisek/curioloop/internal/screens/home"
	"github.com/abhisek/curioloop/internal/screens/quiz"
	"github.com/abhisek/curioloop/internal/ui/layout"
)

// Options configures the root model.
type Options struct {
	Engine *engine.Engine
	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model. The screen on display always
// follows the engine state.
type AppModel struct {
	ctx    context.Context
	eng    *engine.Engine
	log    *zap.Logger
	router *router.Router
	shown  engine.State
	width  int
	height int
}

// New creates the root model showing the screen for the engine's state.
func New(ctx context.Context, opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	st := opts.Engine.State()
	return AppModel{
		ctx:    ctx,
		eng:    opts.Engine,
		log:    log.Named("app"),
		router: router.New(screenFor(ctx, opts.Engine, st)),
		shown:  st,
	}
}

// screenFor builds the screen that presents state.
func screenFor(ctx context.Context, eng *engine.Engine, st engine.State) screen.Screen {
	switch st {
	case engine.StateCreatingPath:
		return create.New(ctx, eng)
	case engine.StateDiagnostic, engine.StatePlanning:
		return quiz.NewDiagnostic(ctx, eng)
	case engine.StatePathDashboard:
		return dashboard.New(ctx, eng)
	case engine.StateChapter:
		return chapter.New(ctx, eng)
	case engine.StateQuizWithinChapter:
		return quiz.NewChapter(ctx, eng)
	default:
		return home.New(ctx, eng)
	}
}

// sameScreen reports whether a and b are shown by the same screen.
func sameScreen(a, b engine.State) bool {
	norm := func(s engine.State) engine.State {
		if s == engine.StatePlanning {
			return engine.StateDiagnostic
		}
		return s
	}
	return norm(a) == norm(b)
}

func (m AppModel) Init() tea.Cmd {
	if a := m.router.Active(); a != nil {
		return a.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case screen.EngineMsg:
		if msg.Err != nil && !errors.Is(msg.Err, engine.ErrSuperseded) {
			m.log.Warn("operation failed", zap.String("op", msg.Op), zap.Error(msg.Err))
		}
		if st := m.eng.State(); !sameScreen(st, m.shown) {
			m.log.Debug("screen change", zap.String("from", string(m.shown)), zap.String("to", string(st)))
			m.shown = st
			return m, m.router.Reset(screenFor(m.ctx, m.eng, st))
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	stats := m.eng.Stats()
	header := layout.RenderHeader(title, stats.StreakDays, stats.TotalXP, m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
