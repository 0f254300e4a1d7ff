package main

import (
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/citywalk/internal/platform/tui"
	"github.com/vovakirdan/citywalk/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresFilter string
	flagScoresTUI    bool
	flagScoresClear  bool
	flagScoresRun    string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the best recorded runs, highest score first.

Examples:
  citywalk scores
  citywalk scores --level hard --limit 5
  citywalk scores --run 01JA2B3C4D5E6F7G8H9J0KMNPQ
  citywalk scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagScoresFilter, "level", "", "Only show runs played at this difficulty")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse runs in an interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded run")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show a single run by ID")
}

func runScores(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		if err := store.ClearRuns(); err != nil {
			fail("%v", err)
		}
		fmt.Println("All runs deleted.")
	case flagScoresRun != "":
		showRun(store, flagScoresRun)
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fail("%v", err)
		}
	default:
		listRuns(store)
	}
}

func playTime(ticks int) time.Duration {
	rate := flagFPS
	if rate <= 0 {
		rate = 60
	}
	return (time.Duration(ticks) * time.Second / time.Duration(rate)).Round(time.Second)
}

func listRuns(store *storage.Store) {
	runs, err := store.TopRunsFor(flagScoresFilter, flagScoresLimit)
	if err != nil {
		fail("%v", err)
	}

	title := "Best runs"
	if flagScoresFilter != "" {
		title += " (" + flagScoresFilter + ")"
	}
	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'citywalk play' to record the first one!")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-5s  %-8s  %-10s  %-8s  %s\n", "Rank", "Score", "Items", "Time", "Player", "Level", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-8s  %-10s  %-8s  %s\n", "----", "-----", "-----", "----", "------", "-----", "----")
	for i, r := range runs {
		mark := ""
		if r.Completed {
			mark = " *"
		}
		fmt.Printf("  %-4d  %-6d  %-5d  %-8s  %-10s  %-8s  %s%s\n",
			i+1, r.Score, r.Items, playTime(r.Ticks), r.Player, r.Difficulty,
			r.CreatedAt.Format("2006-01-02 15:04"), mark)
	}

	stats, err := store.GetStats()
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("%d runs, %d cleared (*), best %d, average %.1f, %d items collected\n",
		stats.Runs, stats.Completed, stats.HighScore, stats.AvgScore, stats.TotalItems)
}

func showRun(store *storage.Store, raw string) {
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		fail("invalid run ID %q: %v", raw, err)
	}
	r, err := store.RunByID(id)
	if err != nil {
		fail("%v", err)
	}
	if r == nil {
		fail("no run with ID %s", id)
	}

	fmt.Printf("Run %s\n\n", r.RunID)
	fmt.Printf("  %-10s %s\n", "Player", r.Player)
	fmt.Printf("  %-10s %d\n", "Score", r.Score)
	fmt.Printf("  %-10s %d\n", "Items", r.Items)
	fmt.Printf("  %-10s %s (%d ticks)\n", "Time", playTime(r.Ticks), r.Ticks)
	fmt.Printf("  %-10s %s\n", "Level", r.Difficulty)
	fmt.Printf("  %-10s %t\n", "Cleared", r.Completed)
	fmt.Printf("  %-10s %s\n", "Started", ulid.Time(r.RunID.Time()).Format(time.RFC3339))
	fmt.Printf("  %-10s %s\n", "Saved", r.CreatedAt.Format(time.RFC3339))
}
