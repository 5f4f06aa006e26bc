package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "otcdb",
	Short: "otcdb: OTC dataset build tooling",
	Long:  "Fetches openFDA label data for a seed list of generic names and converts it into the structured drug record file served by the harmonizer API.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(updateCmd)
}
