package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"sipeta/services"
)

var (
	summaryRegion string
	summaryJSON   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary report for a region",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		region := regionFlagValue(summaryRegion)
		insights := services.NewInsightService(logger)
		report := insights.Generate(region, dataset.Region(region))

		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		insights.Print(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryRegion, "region", "r", "all", "region name, or \"all\" for the whole province")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(summaryCmd)
}
