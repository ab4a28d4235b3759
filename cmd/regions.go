package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sipeta/web"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the selectable regions and their map centers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, opt := range web.RegionOptions() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-20s %9.4f, %9.4f\n", opt.Value, opt.Label, opt.Center.Lat, opt.Center.Lng)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
