package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"sipeta/models"
	"sipeta/services"
	"sipeta/storage"
)

var (
	exportRegion string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the listings of a region as XLSX or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "xlsx" && exportFormat != "csv" {
			return fmt.Errorf("unknown format %q (use xlsx or csv)", exportFormat)
		}

		dataset, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		region := regionFlagValue(exportRegion)
		rows := dataset.Region(region)
		out := exportOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, storage.ExportFileName(region, exportFormat))
		}

		switch exportFormat {
		case "xlsx":
			err = storage.WriteXLSXFile(out, rows, services.GroupByCategory(rows))
		default:
			err = writeCSVFile(out, rows)
		}
		if err != nil {
			return err
		}

		logger.Info("[export] %d listings written to %s", len(rows), out)
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func writeCSVFile(path string, rows []models.Listing) error {
	w, err := storage.CreateCSVFile(path)
	if err != nil {
		return err
	}
	return storage.WriteAll(w, rows)
}

func init() {
	exportCmd.Flags().StringVarP(&exportRegion, "region", "r", "all", "region name, or \"all\" for the whole province")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "output format: xlsx or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default OUTPUT_DIR/umkm_<region>.<format>)")
	rootCmd.AddCommand(exportCmd)
}
