package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"sipeta/observability"
	"sipeta/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("=== SIPETA UMKM dashboard starting ===")
		dataset, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		gin.SetMode(cfg.GinMode)
		metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		srv, err := web.NewServer(cfg, dataset, metrics, logger)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
