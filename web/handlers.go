package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"sipeta/charts"
	"sipeta/models"
	"sipeta/services"
	"sipeta/storage"
)

// Dashboard views, in menu order.
const (
	ViewSummary = "summary"
	ViewCharts  = "charts"
	ViewMap     = "map"
	ViewTable   = "table"
)

var views = []string{ViewSummary, ViewCharts, ViewMap, ViewTable}

const (
	sessionView   = "view"
	sessionRegion = "region"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RegionOption is one entry of the region selector.
type RegionOption struct {
	Value  string            `json:"value"`
	Label  string            `json:"label"`
	Center models.Coordinate `json:"center"`
}

// RegionOptions returns the selector entries, the whole province first.
func RegionOptions() []RegionOption {
	opts := make([]RegionOption, 0, len(models.Regions)+1)
	opts = append(opts, RegionOption{Value: models.AllRegions, Label: models.AllRegionsLabel, Center: models.DefaultCenter})
	for _, r := range models.Regions {
		opts = append(opts, RegionOption{Value: r.Name, Label: r.Name, Center: r.Center})
	}
	return opts
}

var templateFuncs = template.FuncMap{
	"rating": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"deref":  func(v *float64) float64 { return *v },
	"coord": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', 6, 64)
	},
}

type dashboardPage struct {
	View        string
	Views       []string
	Region      string
	RegionLabel string
	Regions     []RegionOption
	Keyword     string
	Heatmap     bool
	Focus       string

	Summary *models.SummaryReport
	Map     *models.MapView
	MapJSON template.JS
	Rows    []models.Listing
}

// dashboard renders the single-page dashboard. view and region fall back to
// the values remembered in the session.
func (s *Server) dashboard(c *gin.Context) {
	session := sessions.Default(c)

	view := c.Query("view")
	if !ValidView(view) {
		view, _ = session.Get(sessionView).(string)
	}
	if !ValidView(view) {
		view = ViewSummary
	}

	region, ok := c.GetQuery("region")
	if !ok {
		region, _ = session.Get(sessionRegion).(string)
	}
	if models.IsAllRegions(region) {
		region = models.AllRegions
	}

	session.Set(sessionView, view)
	session.Set(sessionRegion, region)
	if err := session.Save(); err != nil {
		s.logger.Warn("[web] Failed to save session: %v", err)
	}

	page := dashboardPage{
		View:        view,
		Views:       views,
		Region:      region,
		RegionLabel: models.RegionLabel(region),
		Regions:     RegionOptions(),
		Keyword:     strings.TrimSpace(c.Query("q")),
		Heatmap:     parseBool(c.Query("heatmap")),
		Focus:       c.Query("focus"),
	}

	switch view {
	case ViewSummary, ViewCharts:
		page.Summary = s.insights.Generate(region, s.dataset.Region(region))
	case ViewMap:
		page.Map = services.BuildMapView(s.dataset.Listings(), services.MapQuery{
			Region:    region,
			Keyword:   page.Keyword,
			Heatmap:   page.Heatmap,
			Focus:     page.Focus,
			Precision: s.cfg.ClusterPrecision,
		})
		raw, err := json.Marshal(page.Map)
		if err != nil {
			s.fail(c, err)
			return
		}
		page.MapJSON = template.JS(raw)
	case ViewTable:
		page.Rows = s.dataset.Listings()
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}

// saveSession stores the selected view and region.
func (s *Server) saveSession(c *gin.Context) {
	session := sessions.Default(c)
	if view := c.PostForm("view"); view != "" {
		if !ValidView(view) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": fmt.Sprintf("unknown view %q", view)})
			return
		}
		session.Set(sessionView, view)
	}
	if region, ok := c.GetPostForm("region"); ok {
		if models.IsAllRegions(region) {
			region = models.AllRegions
		}
		session.Set(sessionRegion, region)
	}
	if err := session.Save(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) regions(c *gin.Context) {
	c.JSON(http.StatusOK, RegionOptions())
}

func (s *Server) summary(c *gin.Context) {
	region := regionParam(c)
	c.JSON(http.StatusOK, s.insights.Generate(region, s.dataset.Region(region)))
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, services.GroupByCategory(s.dataset.Region(regionParam(c))))
}

func (s *Server) structure(c *gin.Context) {
	c.JSON(http.StatusOK, services.MarketStructure(s.dataset.Region(regionParam(c))))
}

func (s *Server) mapView(c *gin.Context) {
	precision := s.cfg.ClusterPrecision
	if p, err := strconv.Atoi(c.Query("precision")); err == nil {
		precision = p
	}
	c.JSON(http.StatusOK, services.BuildMapView(s.dataset.Listings(), services.MapQuery{
		Region:    regionParam(c),
		Keyword:   c.Query("q"),
		Heatmap:   parseBool(c.Query("heatmap")),
		Focus:     c.Query("focus"),
		Precision: precision,
	}))
}

// listings returns the full raw table, independent of the region selector.
func (s *Server) listings(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.Listings())
}

func (s *Server) categoryChart(c *gin.Context) {
	region := regionParam(c)
	stats := services.GroupByCategory(s.dataset.Region(region))

	var buf bytes.Buffer
	err := charts.CategoryBarChart(&buf, stats, "Jumlah UMKM per Kategori – "+models.RegionLabel(region))
	s.writeChart(c, region, buf.Bytes(), err)
}

func (s *Server) groupChart(c *gin.Context) {
	region := regionParam(c)
	stats := services.MarketStructure(s.dataset.Region(region))

	var buf bytes.Buffer
	err := charts.GroupBarChart(&buf, stats, "Struktur Pasar Kuliner – "+models.RegionLabel(region))
	s.writeChart(c, region, buf.Bytes(), err)
}

func (s *Server) writeChart(c *gin.Context, region string, png []byte, err error) {
	if errors.Is(err, charts.ErrNoData) {
		c.String(http.StatusNotFound, "No data for %s", models.RegionLabel(region))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) exportXLSX(c *gin.Context) {
	region := regionParam(c)
	rows := s.dataset.Region(region)

	var buf bytes.Buffer
	if err := storage.WriteXLSX(&buf, rows, services.GroupByCategory(rows)); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.RecordExport("xlsx")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, storage.ExportFileName(region, "xlsx")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) exportCSV(c *gin.Context) {
	region := regionParam(c)

	var buf bytes.Buffer
	w, err := storage.NewCSVWriter(&buf)
	if err == nil {
		err = w.Write(s.dataset.Region(region))
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.RecordExport("csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, storage.ExportFileName(region, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"listings":  s.dataset.Len(),
		"source":    s.dataset.Source(),
		"loaded_at": s.dataset.LoadedAt(),
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("[web] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, "internal error")
}

func regionParam(c *gin.Context) string {
	region := c.Query("region")
	if models.IsAllRegions(region) {
		return models.AllRegions
	}
	return region
}

// ValidView reports whether v names a dashboard view.
func ValidView(v string) bool {
	for _, known := range views {
		if v == known {
			return true
		}
	}
	return false
}

// parseBool accepts strconv booleans plus the HTML checkbox value "on".
func parseBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
