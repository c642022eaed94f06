package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/engine/enginetest"
	"github.com/abhisek/curioloop/internal/router"
	"github.com/abhisek/curioloop/internal/screen"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("expected AppModel, got %T", next)
	}
	return am, cmd
}

func TestApp_StartsOnHome(t *testing.T) {
	m := New(context.Background(), Options{Engine: enginetest.New(&enginetest.Generator{})})
	if got := m.router.Active().Title(); got != "Home" {
		t.Fatalf("active = %q, want Home", got)
	}
}

func TestApp_FollowsEngineState(t *testing.T) {
	e := enginetest.New(&enginetest.Generator{})
	m := New(context.Background(), Options{Engine: e})

	if err := e.NewPath(); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, screen.EngineMsg{Op: "new-path"})
	if got := m.router.Active().Title(); got != "New Path" {
		t.Fatalf("active = %q, want New Path", got)
	}
	if m.shown != engine.StateCreatingPath {
		t.Fatalf("shown = %s", m.shown)
	}
}

func TestApp_PlanningKeepsDiagnosticScreen(t *testing.T) {
	if !sameScreen(engine.StatePlanning, engine.StateDiagnostic) {
		t.Fatal("planning and diagnostic should share a screen")
	}
	if sameScreen(engine.StateChapter, engine.StateQuizWithinChapter) {
		t.Fatal("chapter and its quiz are different screens")
	}
}

func TestApp_ResetsStackOnStateChange(t *testing.T) {
	e := enginetest.New(&enginetest.Generator{})
	m := New(context.Background(), Options{Engine: e})

	m, _ = update(t, m, router.PushScreenMsg{Screen: m.router.Active()})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d", m.router.Depth())
	}

	enginetest.AtDashboard(t, e)
	m, _ = update(t, m, screen.EngineMsg{Op: "plan"})
	if m.router.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", m.router.Depth())
	}
	if got := m.router.Active().Title(); got != "Learning Path" {
		t.Fatalf("active = %q", got)
	}
}

func TestApp_EscPopsPushedScreen(t *testing.T) {
	m := New(context.Background(), Options{Engine: enginetest.New(&enginetest.Generator{})})
	m, _ = update(t, m, router.PushScreenMsg{Screen: m.router.Active()})

	_, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
}

func TestApp_SameStateForwardsToScreen(t *testing.T) {
	e := enginetest.New(&enginetest.Generator{})
	m := New(context.Background(), Options{Engine: e})
	before := m.router.Active()

	m, _ = update(t, m, screen.EngineMsg{Op: "open-path", Err: engine.ErrBusy})
	if m.router.Active() != before {
		t.Fatal("screen should not be rebuilt when the state is unchanged")
	}
}
