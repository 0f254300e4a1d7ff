package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/entity"
	"github.com/vovakirdan/citywalk/internal/metrics"
	"github.com/vovakirdan/citywalk/internal/sim"
)

var (
	flagSimTicks    int
	flagSimWalk     string
	flagSimRealtime bool
	flagSimFormat   string
	flagSimMetrics  bool
	flagSimClear    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the city headless and print a summary",
	Long: `Build the city and step it without a terminal, collecting every item
the player touches. Useful for checking a custom config or a seed.

Walk modes:
  right   - Walk right until the end of the street
  left    - Walk left
  bounce  - Walk right, turning around at either end
  none    - Stand still and let the city move around you

Examples:
  citywalk simulate
  citywalk simulate --ticks 20000 --walk bounce --until-clear
  citywalk simulate --seed 42 --format yaml
  citywalk simulate --metrics`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Number of ticks to simulate")
	simulateCmd.Flags().StringVar(&flagSimWalk, "walk", "right", "Walk mode: right, left, bounce, none")
	simulateCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Step at --fps instead of as fast as possible")
	simulateCmd.Flags().StringVar(&flagSimFormat, "format", "text", "Output format: text or yaml")
	simulateCmd.Flags().BoolVar(&flagSimMetrics, "metrics", false, "Print Prometheus metrics after the summary")
	simulateCmd.Flags().BoolVar(&flagSimClear, "until-clear", false, "Stop early once every item is collected")
}

// simSummary is the result of a headless run.
type simSummary struct {
	Seed        int64          `yaml:"seed"`
	Difficulty  string         `yaml:"difficulty"`
	Ticks       uint64         `yaml:"ticks"`
	Elapsed     time.Duration  `yaml:"elapsed"`
	Events      map[string]int `yaml:"events"`
	Contacts    map[string]int `yaml:"contacts"`
	Collected   int            `yaml:"collected"`
	Score       int            `yaml:"score"`
	ItemsLeft   int            `yaml:"items_left"`
	PlayerX     float64        `yaml:"player_x"`
	CameraX     float64        `yaml:"camera_x"`
	WorldWidth  float64        `yaml:"world_width"`
	StillActive int            `yaml:"still_active"`
}

func walkDirection(mode string) (int, error) {
	switch mode {
	case "right", "bounce":
		return 1, nil
	case "left":
		return -1, nil
	case "none":
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown walk mode %q (want right, left, bounce or none)", mode)
	}
}

func runSimulate(cmd *cobra.Command, _ []string) {
	dir, err := walkDirection(flagSimWalk)
	if err != nil {
		fail("%v", err)
	}
	if flagSimTicks <= 0 {
		fail("--ticks must be positive")
	}
	if flagSimFormat != "text" && flagSimFormat != "yaml" {
		fail("unknown format %q (want text or yaml)", flagSimFormat)
	}

	logger := newLogger("citywalk-sim")
	cfg, preset, err := loadCity()
	if err != nil {
		fail("%v", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reg := prometheus.NewRegistry()
	world, err := sim.New(cfg,
		sim.WithSeed(seed),
		sim.WithLogger(logger),
		sim.WithRecorder(metrics.NewMetrics(reg)),
	)
	if err != nil {
		fail("%v", err)
	}

	summary := simSummary{
		Seed:       seed,
		Difficulty: string(preset),
		Events:     map[string]int{},
		Contacts:   map[string]int{},
		WorldWidth: world.WorldWidth(),
	}

	rate := 0
	if flagSimRealtime {
		rate = flagFPS
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	world.MovePlayer(dir)
	start := time.Now()
	runErr := sim.NewLoop(world, rate).Run(ctx, func(w *sim.World, f sim.Frame) bool {
		for _, ev := range f.Events {
			summary.Events[ev.Phase.String()]++
			if ev.Phase != collision.PhaseStart {
				continue
			}
			summary.Contacts[ev.TargetKind.String()]++
			if ev.TargetKind == entity.KindItem {
				if points, ok := collect(w, cfg, ev.Target); ok {
					summary.Score += points
					summary.Collected++
				}
			}
		}

		if flagSimWalk == "bounce" {
			bounce(w)
		}

		if flagSimClear && w.Count(entity.KindItem) == 0 {
			return false
		}
		return f.Tick < uint64(flagSimTicks)
	})
	summary.Elapsed = time.Since(start).Round(time.Microsecond)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fail("%v", runErr)
	}

	summary.Ticks = world.Tick()
	summary.ItemsLeft = world.Count(entity.KindItem)
	summary.PlayerX = world.Player().Box.X
	summary.CameraX = world.Camera().X
	summary.StillActive = world.ActiveCollisions()

	if err := printSummary(summary); err != nil {
		fail("%v", err)
	}

	if flagSimMetrics {
		families, err := reg.Gather()
		if err != nil {
			fail("gathering metrics: %v", err)
		}
		fmt.Println()
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
				fail("writing metrics: %v", err)
			}
		}
	}
}

// collect removes item from w and returns the points it was worth. ok is
// false when the item was already gone.
func collect(w *sim.World, cfg config.CityConfig, item entity.Entity) (points int, ok bool) {
	data, isItem := item.Payload.(*entity.ItemData)
	if !isItem || !w.CollectItem(item.ID) {
		return 0, false
	}
	if data.Subtype == entity.ItemCoin {
		return cfg.Scoring.Coin, true
	}
	return cfg.Scoring.Gem, true
}

// bounce turns the player around at either end of the street.
func bounce(w *sim.World) {
	p := w.Player()
	switch {
	case p.Box.X <= 0 && p.Velocity() < 0:
		w.MovePlayer(1)
	case p.Box.Right() >= w.WorldWidth() && p.Velocity() > 0:
		w.MovePlayer(-1)
	}
}

func printSummary(s simSummary) error {
	if flagSimFormat == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Printf("Simulated %d ticks in %s (seed %d, %s)\n", s.Ticks, s.Elapsed, s.Seed, s.Difficulty)
	fmt.Println()
	fmt.Printf("  %-14s %d / %d / %d\n", "start/stay/end",
		s.Events[collision.PhaseStart.String()],
		s.Events[collision.PhaseStay.String()],
		s.Events[collision.PhaseEnd.String()])
	for _, kind := range entity.Kinds {
		if n := s.Contacts[kind.String()]; n > 0 {
			fmt.Printf("  %-14s %d\n", "met "+kind.String(), n)
		}
	}
	fmt.Printf("  %-14s %d (%d left)\n", "collected", s.Collected, s.ItemsLeft)
	fmt.Printf("  %-14s %d\n", "score", s.Score)
	fmt.Printf("  %-14s %.0f / %.0f\n", "player x", s.PlayerX, s.WorldWidth)
	fmt.Printf("  %-14s %d\n", "still touching", s.StillActive)
	return nil
}
