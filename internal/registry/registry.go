// Package registry maps game ids to factories. Games register themselves in
// init(), so hosts (the terminal program, the SSH server, the CLI) create
// them by id without importing their packages.
package registry

import (
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/vovakirdan/citywalk/internal/core"
)

// CodeUnknownGame is the oops code of errors returned by Create.
const CodeUnknownGame = "unknown_game"

// Game is what a host drives once per tick. Implementations hold no
// Bubble Tea state; the host owns timing, input mapping and output.
type Game interface {
	ID() string
	Title() string

	// Reset starts a new run. It is called before the first Step and again
	// on restart. cfg carries screen size, tick rate and seed.
	Reset(cfg core.RuntimeConfig) error

	// Step advances one tick with the actions pressed since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which the caller has cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// Resizer is implemented by games that follow a screen resize without
// restarting. Hosts fall back to Reset for other games.
type Resizer interface {
	Resize(width, height int)
}

// Factory creates a fresh game. Every host session gets its own instance.
type Factory func() Game

// Entry describes a registered game.
type Entry struct {
	ID      string
	Title   string
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]Entry)
)

// Register adds a game under id. It panics on a duplicate id, which is a
// programming error caught at init.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic("registry: game " + id + " already registered")
	}
	entries[id] = Entry{ID: id, Title: title, factory: f}
}

// List returns every registered game sorted by id.
func List() []Entry {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// IDs returns the registered ids sorted, for help and error messages.
func IDs() []string {
	list := List()
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return ids
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, oops.
			In("registry").
			Code(CodeUnknownGame).
			With("id", id).
			With("known", IDs()).
			Errorf("unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
