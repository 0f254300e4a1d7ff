package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/citywalk/internal/config"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the config JSON schema",
	Long: `Print the JSON Schema describing city.yaml.

Editors that understand JSON Schema can use it to complete and check
config files. Use 'citywalk schema validate' to check a file from the
command line, or 'citywalk schema defaults' to start from the built-in city.

Examples:
  citywalk schema > city.schema.json
  citywalk schema validate ./my-city.yaml
  citywalk schema defaults > ~/.citywalk/city.yaml`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		data, err := config.GenerateSchema()
		if err != nil {
			fail("%v", err)
		}
		os.Stdout.Write(data)
		fmt.Println()
	},
}

var schemaValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check config files against the schema",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err == nil {
				err = config.ValidateYAML(data)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Printf("%s: ok\n", path)
		}
		if failed > 0 {
			fail("%d of %d files are invalid", failed, len(args))
		}
	},
}

var schemaDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in city.yaml",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.DefaultYAML())
	},
}

func init() {
	schemaCmd.AddCommand(schemaValidateCmd)
	schemaCmd.AddCommand(schemaDefaultsCmd)
}
