package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch and convert in one step",
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := runFetch(cmd, args); err != nil {
		return fmt.Errorf("fetch step failed: %w", err)
	}

	convertRawPath = rawPath
	if err := runConvert(cmd, args); err != nil {
		return fmt.Errorf("convert step failed: %w", err)
	}

	fmt.Println("Dataset update complete")
	return nil
}

func init() {
	updateCmd.Flags().AddFlagSet(fetchCmd.Flags())
	updateCmd.Flags().StringVar(&outPath, "out", "dataset/otc_db.json", "output path for the structured record file")
}
