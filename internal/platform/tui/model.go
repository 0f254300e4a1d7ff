package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/metrics"
	"github.com/vovakirdan/citywalk/internal/registry"
	"github.com/vovakirdan/citywalk/internal/storage"
)

// Session describes who is playing, for run persistence.
type Session struct {
	Player     string // SSH user, empty for local play
	Difficulty string
	Logger     *log.Logger
	Metrics    *metrics.Metrics // may be nil
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	session    Session
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	runSaved   bool      // Whether the current run has been recorded
	lastRun    ulid.ULID // ID of the last recorded run
}

// NewModel resets game and wraps it in a Bubble Tea model.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, session Session) (Model, error) {
	cfg = cfg.Normalized()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if session.Logger == nil {
		session.Logger = log.New(io.Discard)
	}

	if err := game.Reset(cfg); err != nil {
		return Model{}, err
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		session:    session,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveRun(false)
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games that cannot resize restart with the new dimensions.
	if !m.gameState.GameOver {
		if err := m.game.Reset(m.config); err != nil {
			m.session.Logger.Error("reset failed", "game", m.game.ID(), "err", err)
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		if err := m.game.Reset(m.config); err != nil {
			m.session.Logger.Error("reset failed", "game", m.game.ID(), "err", err)
		}
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Record the run once it is finished.
	if m.gameState.GameOver && !m.runSaved {
		m.session.Metrics.RunFinished()
		m.saveRun(true)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config)
}

// saveRun records the current run once. Runs that never ticked are skipped.
func (m *Model) saveRun(completed bool) {
	if m.runSaved || m.gameState.Ticks == 0 {
		return
	}
	m.runSaved = true
	if m.store == nil {
		return
	}

	id, err := m.store.SaveRun(storage.Run{
		Player:     m.session.Player,
		Score:      m.gameState.Score,
		Items:      m.gameState.Items,
		Ticks:      m.gameState.Ticks,
		Difficulty: m.session.Difficulty,
		Completed:  completed,
	})
	if err != nil {
		m.session.Logger.Warn("could not save run", "err", err)
		return
	}
	m.lastRun = id
	m.session.Logger.Info("run saved",
		"run", id.String(),
		"player", m.session.Player,
		"score", m.gameState.Score,
		"completed", completed,
	)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".citywalk", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// LastRun returns the ID of the last recorded run, or the zero ULID.
func (m Model) LastRun() ulid.ULID {
	return m.lastRun
}

// Run starts the Bubble Tea program with the given game and returns the
// final model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, session Session) (Model, error) {
	model, err := NewModel(game, store, cfg, session)
	if err != nil {
		return Model{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return model, nil
}
