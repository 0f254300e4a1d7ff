// citywalk is a side-scrolling walk through a Japanese city, played in the
// terminal or over SSH.
//
// Usage:
//
//	citywalk play            - Walk the city
//	citywalk simulate        - Run the simulation headless and print a summary
//	citywalk inspect         - List the entities a city is built from
//	citywalk scores          - Show the best runs
//	citywalk schema          - Print or check the config JSON schema
//	citywalk serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible patrols
//	--db <path>           - Set database path (default: ~/.citywalk/runs.db)
//	--config <path>       - Use a custom city.yaml
//	--difficulty <name>   - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/games/city"
	"github.com/vovakirdan/citywalk/internal/sim"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citywalk",
	Short: "City Walk - stroll through a city in your terminal",
	Long: `City Walk is a side-scrolling exploration game for the terminal.
Walk the street, collect coins and gems, talk to shopkeepers and
passers-by, and keep out of the way of the troublemakers.

Available commands:
  play      - Walk the city
  simulate  - Run the city headless and print a summary
  inspect   - List entities in the city
  scores    - View the best runs
  schema    - Print the config JSON schema or check a config file
  serve     - Start SSH server for remote play

Examples:
  citywalk play
  citywalk play --difficulty hard
  citywalk simulate --ticks 3600 --walk right
  citywalk inspect --kind building --match "S*"
  citywalk serve --ssh :2222 --metrics :9090`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.citywalk/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom city config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger shared by every command.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadCity loads the configured city and applies the difficulty preset.
func loadCity() (config.CityConfig, config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.CityConfig{}, "", err
	}
	cfg, err := config.LoadCity(flagConfig)
	if err != nil {
		return config.CityConfig{}, "", err
	}
	config.ApplyCityPreset(&cfg, preset)
	return cfg, preset, nil
}

// configureGame loads the city and hands it to the registered city game.
func configureGame(logger *log.Logger, recorder sim.Recorder) (config.DifficultyPreset, error) {
	cfg, preset, err := loadCity()
	if err != nil {
		return "", err
	}
	city.Configure(city.Settings{City: cfg, Logger: logger, Recorder: recorder})
	return preset, nil
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
