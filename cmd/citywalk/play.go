package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/games/city"
	"github.com/vovakirdan/citywalk/internal/platform/tui"
	"github.com/vovakirdan/citywalk/internal/registry"
	"github.com/vovakirdan/citywalk/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Walk the city",
	Long: `Start a walk through the city.

Controls:
  Left/Right, A/D  - Walk
  S, Down          - Stop
  Space, E, Enter  - Talk to the building or person you are touching
  Up/Down, Enter   - Pick a dialog answer (or press 1-3)
  Esc, B           - Leave a dialog
  P                - Pause
  R                - Walk again after clearing the city
  Ctrl+S           - Save a screenshot to ~/.citywalk/screenshots
  Q, Ctrl+C        - Quit

Difficulty options:
  easy   - Half as many troublemakers, moving at half speed
  normal - The city as configured
  hard   - Twice as many troublemakers, moving twice as fast
  fixed  - The city as configured

Examples:
  citywalk play
  citywalk play --difficulty easy
  citywalk play --config ./my-city.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := city.ID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fail("unknown game %q (available: %s)", gameID, strings.Join(registry.IDs(), ", "))
	}

	// Logs share the terminal with the game; the default level keeps them rare.
	logger := newLogger("citywalk")

	preset, err := configureGame(logger, nil)
	if err != nil {
		fail("%v", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fail("creating game: %v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	final, runErr := tui.Run(game, store, cfg, tui.Session{
		Difficulty: string(preset),
		Logger:     logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}

	st := final.State()
	fmt.Printf("Score: %d  Items: %d  Ticks: %d\n", st.Score, st.Items, st.Ticks)
	if id := final.LastRun(); id != (ulid.ULID{}) {
		fmt.Printf("Saved run %s\n", id)
	}
}
