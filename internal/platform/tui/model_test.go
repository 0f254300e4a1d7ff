package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/storage"
)

// stubGame ends its run after finishAt steps and scores one point per step.
type stubGame struct {
	finishAt int
	steps    int
	resets   int
	resized  [2]int
	lastIn   core.InputFrame
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) error {
	g.resets++
	g.steps = 0
	return nil
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.lastIn = core.NewInputFrame()
	for a, ok := range in.Actions {
		if ok {
			g.lastIn.Set(a)
		}
	}
	if g.steps < g.finishAt {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.steps, Items: g.steps / 2, Ticks: g.steps, GameOver: g.steps >= g.finishAt}
}

func (g *stubGame) Resize(w, h int) { g.resized = [2]int{w, h} }

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, g *stubGame, store *storage.Store) Model {
	t.Helper()
	m, err := NewModel(g, store, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1},
		Session{Player: "alice", Difficulty: "hard"})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm
}

func TestModelSavesFinishedRunOnce(t *testing.T) {
	store := openStore(t)
	g := &stubGame{finishAt: 3}
	m := newTestModel(t, g, store)

	for range 6 {
		m = update(t, m, TickMsg{})
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Score != 3 || r.Ticks != 3 || !r.Completed {
		t.Errorf("run = %+v, expected score 3, ticks 3, completed", r)
	}
	if r.Player != "alice" || r.Difficulty != "hard" {
		t.Errorf("run player/difficulty = %q/%q, expected alice/hard", r.Player, r.Difficulty)
	}
	if m.LastRun() != r.RunID {
		t.Errorf("LastRun() = %v, expected %v", m.LastRun(), r.RunID)
	}
}

func TestModelQuitSavesUnfinishedRun(t *testing.T) {
	store := openStore(t)
	g := &stubGame{finishAt: 100}
	m := newTestModel(t, g, store)

	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 saved run, got %d", len(runs))
	}
	if runs[0].Completed {
		t.Error("a quit run should not be marked completed")
	}
	if runs[0].Score != 2 {
		t.Errorf("Score = %d, expected 2", runs[0].Score)
	}
}

func TestModelQuitBeforeFirstTickSavesNothing(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, &stubGame{finishAt: 100}, store)

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() = %d, expected nothing saved", high)
	}
}

func TestModelForwardsKeysOnNextTick(t *testing.T) {
	g := &stubGame{finishAt: 100}
	m := newTestModel(t, g, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, TickMsg{})

	if !g.lastIn.Has(core.ActionRight) || !g.lastIn.Has(core.ActionConfirm) {
		t.Errorf("game saw %v, expected Right and Confirm", g.lastIn.Actions)
	}

	update(t, m, TickMsg{})
	if !g.lastIn.Empty() {
		t.Errorf("input should be cleared between ticks, got %v", g.lastIn.Actions)
	}
}

func TestModelRestartAfterRunEnds(t *testing.T) {
	g := &stubGame{finishAt: 1}
	m := newTestModel(t, g, nil)

	m = update(t, m, TickMsg{})
	if !m.State().GameOver {
		t.Fatal("expected the run to be over")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = update(t, m, TickMsg{})

	if g.resets != 2 {
		t.Errorf("resets = %d, expected 2", g.resets)
	}
	if m.State().GameOver {
		t.Error("restart should begin a new run")
	}
}

func TestModelResizeUsesResizer(t *testing.T) {
	g := &stubGame{finishAt: 100}
	m := newTestModel(t, g, nil)

	update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if g.resized != [2]int{120, 40} {
		t.Errorf("resized = %v, expected [120 40]", g.resized)
	}
	if g.resets != 1 {
		t.Errorf("resets = %d, resize should not restart the run", g.resets)
	}
}
