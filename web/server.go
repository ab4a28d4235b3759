// Package web serves the SIPETA dashboard and its JSON, chart and export
// endpoints over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"sipeta/config"
	"sipeta/observability"
	"sipeta/services"
	"sipeta/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server wires the loaded dataset to the HTTP routes.
type Server struct {
	cfg      *config.Config
	dataset  *services.Dataset
	insights *services.InsightService
	metrics  *observability.Collector
	logger   *utils.Logger
	engine   *gin.Engine
}

// NewServer builds the gin engine and registers every route. metrics may be
// nil, in which case /metrics is not served.
func NewServer(cfg *config.Config, dataset *services.Dataset, metrics *observability.Collector, logger *utils.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		dataset:  dataset,
		insights: services.NewInsightService(logger),
		metrics:  metrics,
		logger:   logger,
	}
	metrics.SetDatasetSize(dataset.Len())

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(logger))
	if metrics != nil {
		r.Use(metrics.Middleware())
	}
	r.Use(sessions.Sessions(cfg.SessionName, cookie.NewStore([]byte(cfg.SessionSecret))))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.dashboard)
	r.POST("/session", s.saveSession)

	api := r.Group("/api")
	{
		api.GET("/regions", s.regions)
		api.GET("/summary", s.summary)
		api.GET("/categories", s.categories)
		api.GET("/structure", s.structure)
		api.GET("/map", s.mapView)
		api.GET("/listings", s.listings)
	}

	r.GET("/charts/categories.png", s.categoryChart)
	r.GET("/charts/groups.png", s.groupChart)
	r.GET("/export/listings.xlsx", s.exportXLSX)
	r.GET("/export/listings.csv", s.exportCSV)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.GET("/healthz", s.health)

	s.engine = r
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.HTTPAddr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[web] Dashboard listening on %s (%d listings from %s)", s.cfg.HTTPAddr, s.dataset.Len(), s.dataset.Source())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("web: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("[web] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
