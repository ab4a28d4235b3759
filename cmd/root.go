package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sipeta/config"
	"sipeta/models"
	"sipeta/services"
	"sipeta/storage"
	"sipeta/utils"
)

var (
	// Global flags, applied on top of the environment
	envFile    string
	dataPath   string
	dataSource string
	debug      bool

	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sipeta",
	Short: "SIPETA: culinary UMKM mapping and analysis dashboard for West Java",
	Long: `SIPETA loads a table of culinary micro-businesses (UMKM), classifies them into
business groups and serves summary metrics, competition charts and an
interactive map per region.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default ./.env)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "listing CSV path (overrides DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&dataSource, "source", "", "data source: csv or postgres (overrides DATA_SOURCE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// setup loads configuration and the logger before any subcommand runs.
// Logs go to stderr so command output on stdout stays machine-readable.
func setup(cmd *cobra.Command, _ []string) error {
	cfg = config.Load(envFile)
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if dataSource != "" {
		cfg.DataSource = strings.ToLower(dataSource)
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = utils.NewLoggerTo(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.EnableDebug(cfg.Debug)
	return nil
}

// missingDataError is shown to the user as-is when the CSV does not exist.
type missingDataError struct {
	path string
}

func (e *missingDataError) Error() string { return fmt.Sprintf("data file %s not found", e.path) }

func (e *missingDataError) Unwrap() error { return storage.ErrDataFileNotFound }

// loadDataset reads the configured source and freezes it into a Dataset.
func loadDataset(ctx context.Context) (*services.Dataset, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		return loadFromStore(ctx, store, "postgres:"+cfg.PostgresDB)
	default:
		listings, err := readCSVListings(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		logger.Info("[loader] %d listings loaded from %s", len(listings), cfg.DataPath)
		return services.NewDataset(listings, cfg.DataPath), nil
	}
}

// loadFromStore fetches every listing from store and closes it.
func loadFromStore(ctx context.Context, store storage.ListingStore, source string) (*services.Dataset, error) {
	defer store.Close()

	listings, err := store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("[loader] %d listings loaded from %s", len(listings), source)
	return services.NewDataset(listings, source), nil
}

// readCSVListings reads and cleans the listing CSV at path.
func readCSVListings(path string) ([]models.Listing, error) {
	raw, err := storage.ReadCSVFile(path)
	if err != nil {
		if errors.Is(err, storage.ErrDataFileNotFound) {
			return nil, &missingDataError{path: path}
		}
		return nil, err
	}
	return services.NewCleaner(logger).Clean(raw), nil
}

// regionFlagValue normalizes the --region flag to a selector value.
func regionFlagValue(region string) string {
	if models.IsAllRegions(strings.TrimSpace(region)) {
		return models.AllRegions
	}
	return strings.TrimSpace(region)
}
