package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sipeta/models"
	"sipeta/snapshot"
	"sipeta/web"
)

var (
	snapshotBaseURL string
	snapshotView    string
	snapshotOut     string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture PNG screenshots of a running dashboard, one per region",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !web.ValidView(snapshotView) {
			return fmt.Errorf("unknown view %q", snapshotView)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		baseURL := snapshotBaseURL
		if baseURL == "" {
			baseURL = localURL(cfg.HTTPAddr)
		}
		out := snapshotOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, "snapshots")
		}

		capturer := snapshot.New(snapshot.Options{
			BaseURL:     baseURL,
			View:        snapshotView,
			OutDir:      out,
			ChromeBin:   cfg.ChromeBin,
			Concurrency: cfg.SnapshotConcurrency,
			Timeout:     time.Duration(cfg.SnapshotTimeoutSec) * time.Second,
			MaxRetries:  cfg.MaxRetries,
		}, logger)

		regions := []string{models.AllRegions}
		for _, r := range models.Regions {
			regions = append(regions, r.Name)
		}

		paths, err := capturer.CaptureRegions(ctx, regions)
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		if err != nil {
			return err
		}
		logger.Info("[snapshot] %d screenshots written to %s", len(paths), out)
		return nil
	},
}

// localURL turns a listen address such as ":8501" into a loopback URL.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotBaseURL, "base-url", "", "dashboard URL (default http://localhost<HTTP_ADDR>)")
	snapshotCmd.Flags().StringVar(&snapshotView, "view", web.ViewSummary, "view to capture: summary, charts, map or table")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output directory (default OUTPUT_DIR/snapshots)")
	rootCmd.AddCommand(snapshotCmd)
}
