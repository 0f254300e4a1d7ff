package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/citywalk/internal/entity"
	"github.com/vovakirdan/citywalk/internal/sim"
)

var (
	flagInspectKinds []string
	flagInspectMatch string
	flagInspectFrom  float64
	flagInspectTo    float64
	flagInspectTicks int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List entities in the city",
	Long: `Build the city and list its entities with their boxes.

With --from and --to only entities overlapping that x range are listed,
using the same spatial query the game uses each frame. Backgrounds are
only listed when asked for by kind.

Examples:
  citywalk inspect
  citywalk inspect --kind building --kind npc
  citywalk inspect --match "*Shop*"
  citywalk inspect --from 0 --to 800 --ticks 120`,
	Args: cobra.NoArgs,
	Run:  runInspect,
}

func init() {
	inspectCmd.Flags().StringSliceVar(&flagInspectKinds, "kind", nil, "Only list these kinds (repeatable)")
	inspectCmd.Flags().StringVar(&flagInspectMatch, "match", "", "Glob pattern matched against entity names")
	inspectCmd.Flags().Float64Var(&flagInspectFrom, "from", 0, "Left edge of the x range")
	inspectCmd.Flags().Float64Var(&flagInspectTo, "to", 0, "Right edge of the x range")
	inspectCmd.Flags().IntVar(&flagInspectTicks, "ticks", 0, "Advance the simulation before listing")
}

var (
	inspectHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	inspectCell   = lipgloss.NewStyle().Padding(0, 1)
	inspectDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func parseKinds(names []string) ([]entity.Kind, error) {
	kinds := make([]entity.Kind, 0, len(names))
	for _, name := range names {
		k := entity.ParseKind(strings.ToLower(strings.TrimSpace(name)))
		if k == entity.KindNone {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func hasKind(kinds []entity.Kind, k entity.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// selectEntities returns the entities of w that pass the kind, range and
// name filters. Backgrounds are only included when kinds names them.
func selectEntities(w *sim.World, kinds []entity.Kind, ranged bool, from, to float64, match glob.Glob) []entity.Entity {
	var found []entity.Entity
	switch {
	case ranged:
		found = w.Query(from, to, kinds...)
		if hasKind(kinds, entity.KindBackground) {
			found = append(found, w.Backgrounds(min(from, to), max(from, to))...)
		}
	case len(kinds) == 0:
		w.Each(func(e entity.Entity) bool {
			if e.Kind != entity.KindBackground {
				found = append(found, e)
			}
			return true
		})
	default:
		w.Each(func(e entity.Entity) bool {
			found = append(found, e)
			return true
		}, kinds...)
	}

	if match == nil {
		return found
	}
	kept := found[:0]
	for _, e := range found {
		if match.Match(e.Name()) {
			kept = append(kept, e)
		}
	}
	return kept
}

func entityDetail(e entity.Entity) string {
	switch p := e.Payload.(type) {
	case *entity.PlayerData:
		return "speed " + strconv.FormatFloat(p.Speed, 'f', -1, 64)
	case *entity.BuildingData:
		return p.Subtype
	case *entity.MoverData:
		return "vx " + strconv.FormatFloat(p.VX, 'f', -1, 64)
	case *entity.BackgroundData:
		if p.Special {
			return fmt.Sprintf("tile %d (special)", p.TileIndex)
		}
		return fmt.Sprintf("tile %d", p.TileIndex)
	}
	return ""
}

func runInspect(cmd *cobra.Command, _ []string) {
	kinds, err := parseKinds(flagInspectKinds)
	if err != nil {
		fail("%v", err)
	}

	var match glob.Glob
	if flagInspectMatch != "" {
		match, err = glob.Compile(flagInspectMatch)
		if err != nil {
			fail("invalid pattern %q: %v", flagInspectMatch, err)
		}
	}

	cfg, _, err := loadCity()
	if err != nil {
		fail("%v", err)
	}
	world, err := sim.New(cfg, sim.WithSeed(flagSeed), sim.WithLogger(newLogger("citywalk-inspect")))
	if err != nil {
		fail("%v", err)
	}
	for range flagInspectTicks {
		world.Step(0)
	}

	ranged := cmd.Flags().Changed("from") || cmd.Flags().Changed("to")
	found := selectEntities(world, kinds, ranged, flagInspectFrom, flagInspectTo, match)
	if len(found) == 0 {
		fmt.Println(inspectDim.Render("No entities match."))
		return
	}

	rows := make([][]string, 0, len(found))
	for _, e := range found {
		touching := ""
		if world.IsColliding(e.ID) {
			touching = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Kind.String(),
			e.Name(),
			fmt.Sprintf("%.0f,%.0f", e.Box.X, e.Box.Y),
			fmt.Sprintf("%.0fx%.0f", e.Box.W, e.Box.H),
			entityDetail(e),
			touching,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(inspectDim).
		Headers("ID", "KIND", "NAME", "POS", "SIZE", "DETAIL", "TOUCHING").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return inspectHeader
			}
			return inspectCell
		})

	fmt.Println(t.Render())
	fmt.Println(inspectDim.Render(fmt.Sprintf("%d entities, tick %d, world width %.0f",
		len(found), world.Tick(), world.WorldWidth())))
}
