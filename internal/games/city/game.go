// Package city implements the side-scrolling city walk on top of the
// simulation: it turns input into player movement, collision events into
// score and dialog, and the world into a character screen.
package city

import (
	"fmt"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/dialog"
	"github.com/vovakirdan/citywalk/internal/entity"
	"github.com/vovakirdan/citywalk/internal/registry"
	"github.com/vovakirdan/citywalk/internal/sim"
)

// Registry identity of the city walk.
const (
	ID    = "city"
	Title = "City Walk"
)

// noticeTicks is how long a footer notice stays up.
const noticeTicks = 120

// Game implements registry.Game for the city walk.
type Game struct {
	settings Settings
	runtime  core.RuntimeConfig
	world    *sim.World
	talk     *dialog.Session

	score      int
	collected  int
	contacts   int
	totalItems int

	dir    int // walking direction while hold > 0
	hold   int // ticks of walking left before the player stops
	paused bool
	over   bool

	notice      string
	noticeLeft  int
	noticeOwner entity.ID // entity whose approach raised the notice
}

// New creates a city walk that builds its world from s.
// Reset must be called before the first Step.
func New(s Settings) *Game {
	return &Game{settings: s}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return Title
}

// Reset builds a fresh world and clears the run.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	runtime = runtime.Normalized()

	world, err := sim.New(g.settings.City,
		sim.WithSeed(runtime.Seed),
		sim.WithLogger(g.settings.Logger),
		sim.WithRecorder(g.settings.Recorder),
	)
	if err != nil {
		return err
	}

	*g = Game{
		settings:   g.settings,
		runtime:    runtime,
		world:      world,
		totalItems: world.Count(entity.KindItem),
	}
	g.Resize(runtime.ScreenW, runtime.ScreenH)
	return nil
}

// Resize fits the world viewport to a screen of width x height cells. The
// full world height is always visible; the visible width follows the
// terminal's aspect ratio.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW, g.runtime.ScreenH = width, height
	rows := sceneRows(height)
	if g.world == nil || width <= 0 || rows <= 0 {
		return
	}
	vh := g.settings.City.World.Height
	g.world.SetViewport(vh*float64(width)/float64(rows)*cellAspect, vh)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.world == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.over {
		g.paused = !g.paused
	}
	if g.over || g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.talk.Open() {
		g.stepDialog(in)
	} else {
		g.stepWalk(in)
	}

	frame := g.world.Step(g.runtime.TickInterval())
	g.handle(frame.Events)

	if g.noticeLeft > 0 {
		g.noticeLeft--
		if g.noticeLeft == 0 {
			g.clearNotice()
		}
	}

	if g.totalItems > 0 && g.world.Count(entity.KindItem) == 0 {
		g.over = true
		g.talk = nil
		g.world.StopPlayer()
	}

	return core.StepResult{State: g.State(), Events: len(frame.Events)}
}

// stepWalk handles input outside dialogs. Terminals report presses but not
// releases, so a press walks for HoldTicks and repeats extend it.
func (g *Game) stepWalk(in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		g.dir, g.hold = -1, g.settings.City.Input.HoldTicks
	case in.Has(core.ActionRight):
		g.dir, g.hold = 1, g.settings.City.Input.HoldTicks
	case in.Has(core.ActionStop), in.Has(core.ActionDown):
		g.dir, g.hold = 0, 0
	}

	if in.Has(core.ActionInteract) || in.Has(core.ActionConfirm) {
		if g.startDialog() {
			g.dir, g.hold = 0, 0
		}
	}

	if g.hold > 0 {
		g.hold--
		g.world.MovePlayer(g.dir)
		return
	}
	g.world.StopPlayer()
}

func (g *Game) stepDialog(in core.InputFrame) {
	s := g.talk
	switch {
	case in.Has(core.ActionBack):
		s.Close()
	case in.Has(core.ActionUp):
		s.Up()
	case in.Has(core.ActionDown):
		s.Down()
	case in.Has(core.ActionConfirm), in.Has(core.ActionInteract):
		g.score += s.Confirm()
	default:
		for _, a := range []core.Action{core.ActionOption1, core.ActionOption2, core.ActionOption3} {
			if in.Has(a) {
				g.score += s.Choose(a.OptionIndex())
				break
			}
		}
	}

	g.world.StopPlayer()
	if !s.Open() {
		if s.Earned() > 0 {
			g.say(fmt.Sprintf("%s: +%d points", s.Name(), s.Earned()), entity.None)
		}
		g.talk = nil
	}
}

// startDialog opens a conversation with the lowest-id building or NPC the
// player is currently touching.
func (g *Game) startDialog() bool {
	target, ok := g.nearestInteractable()
	if !ok {
		return false
	}
	s := g.settings.City.Dialogs.Start(target.DialogTopic(), target.ID, target.Name())
	if s == nil {
		return false
	}
	g.talk = s
	g.clearNotice()
	g.world.StopPlayer()
	return true
}

func (g *Game) nearestInteractable() (entity.Entity, bool) {
	p := g.world.Player()
	for _, e := range g.world.Query(p.Box.X, p.Box.Right(), entity.KindBuilding, entity.KindNPC) {
		if e.Interactable() && g.world.IsColliding(e.ID) {
			return e, true
		}
	}
	return entity.Entity{}, false
}

// handle applies the consequences of a tick's collision events.
func (g *Game) handle(events []collision.Event) {
	for _, ev := range events {
		switch ev.Phase {
		case collision.PhaseStart:
			g.onStart(ev)
		case collision.PhaseEnd:
			if ev.Target.ID == g.noticeOwner {
				g.clearNotice()
			}
		}
	}
}

func (g *Game) onStart(ev collision.Event) {
	switch ev.TargetKind {
	case entity.KindItem:
		g.collect(ev.Target)
	case entity.KindEnemy:
		g.contacts++
		g.say("Watch out! Something bumped into you.", ev.Target.ID)
	case entity.KindBuilding, entity.KindNPC:
		if !g.talk.Open() {
			g.say(fmt.Sprintf("Press Enter to talk to %s", ev.Target.Name()), ev.Target.ID)
		}
	}
}

func (g *Game) collect(item entity.Entity) {
	data, ok := item.Payload.(*entity.ItemData)
	if !ok || !g.world.CollectItem(item.ID) {
		return
	}

	points := g.settings.City.Scoring.Gem
	if data.Subtype == entity.ItemCoin {
		points = g.settings.City.Scoring.Coin
	}
	g.score += points
	g.collected++
}

func (g *Game) say(msg string, owner entity.ID) {
	g.notice = msg
	g.noticeLeft = noticeTicks
	g.noticeOwner = owner
}

func (g *Game) clearNotice() {
	g.notice = ""
	g.noticeLeft = 0
	g.noticeOwner = entity.None
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.score,
		Items:    g.collected,
		GameOver: g.over,
		Paused:   g.paused,
	}
	if g.world != nil {
		st.Ticks = int(g.world.Tick())
	}
	return st
}

// World returns the running world, or nil before Reset.
func (g *Game) World() *sim.World {
	return g.world
}

// Dialog returns the open conversation, or nil.
func (g *Game) Dialog() *dialog.Session {
	return g.talk
}

// Contacts returns how many times an enemy ran into the player.
func (g *Game) Contacts() int {
	return g.contacts
}

// Notice returns the footer message currently shown, if any.
func (g *Game) Notice() string {
	return g.notice
}

func init() {
	registry.Register(ID, Title, func() registry.Game {
		return New(configured())
	})
}
