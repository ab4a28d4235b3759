package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sipeta/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load the listing CSV into PostgreSQL",
	Long: `sync reads and cleans the CSV at DATA_PATH and replaces the contents of the
umkm_listings table with it, so the dashboard can run with DATA_SOURCE=postgres.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		listings, err := readCSVListings(cfg.DataPath)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			return fmt.Errorf("no listings in %s, refusing to clear the table", cfg.DataPath)
		}

		store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
		if err != nil {
			logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			return err
		}
		defer store.Close()

		if err := store.WriteContext(ctx, listings); err != nil {
			return err
		}
		logger.Info("[sync] %d listings stored in PostgreSQL (table: umkm_listings)", len(listings))
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d listings\n", len(listings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
