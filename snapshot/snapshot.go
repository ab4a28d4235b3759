// Package snapshot captures PNG screenshots of dashboard pages with a
// headless Chrome, one per region.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"sipeta/models"
	"sipeta/utils"
)

const (
	screenshotQuality = 90
	mapSettleDelay    = 3 * time.Second
	startInterval     = 500 * time.Millisecond
)

// Options controls a capture run.
type Options struct {
	BaseURL     string
	View        string
	OutDir      string
	ChromeBin   string
	Concurrency int
	Timeout     time.Duration
	MaxRetries  int
}

// Capturer drives a shared browser allocator and writes one PNG per page.
type Capturer struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a Capturer.
func New(opts Options, logger *utils.Logger) *Capturer {
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}
	return &Capturer{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// CaptureRegions screenshots the configured view for every region and
// returns the written file paths in region order. Failed regions are
// skipped and reported in the joined error.
func (c *Capturer) CaptureRegions(ctx context.Context, regions []string) ([]string, error) {
	if err := os.MkdirAll(c.opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := findChromeBinary(c.opts.ChromeBin)
	c.logger.Info("[snapshot] Using browser binary: %s", displayBinary(chromeBin))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1440, 900),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser once so tabs share it.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	var (
		mu    sync.Mutex
		paths = make([]string, len(regions))
	)
	pool := utils.NewWorkerPool(c.opts.Concurrency, startInterval)
	for i, region := range regions {
		pool.Submit(func() error {
			pageURL, err := PageURL(c.opts.BaseURL, c.opts.View, region)
			if err != nil {
				return err
			}
			path := filepath.Join(c.opts.OutDir, FileName(c.opts.View, region))

			var png []byte
			err = c.retry.DoContext(ctx, "snapshot "+region, func(context.Context) error {
				var err error
				png, err = c.capture(browserCtx, pageURL)
				return err
			})
			if err != nil {
				c.logger.Error("[snapshot] %s failed: %v", models.RegionLabel(region), err)
				return fmt.Errorf("snapshot: %s: %w", models.RegionLabel(region), err)
			}
			if err := os.WriteFile(path, png, 0644); err != nil {
				return fmt.Errorf("snapshot: write %q: %w", path, err)
			}

			c.logger.Info("[snapshot] Saved %s", path)
			mu.Lock()
			paths[i] = path
			mu.Unlock()
			return nil
		})
	}
	err := pool.Wait()

	written := paths[:0]
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, err
}

// capture opens pageURL in a new tab and returns a full-page screenshot.
func (c *Capturer) capture(browserCtx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancelTimeout()

	tasks := chromedp.Tasks{
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("main", chromedp.ByQuery),
	}
	if c.opts.View == "map" {
		tasks = append(tasks, chromedp.Sleep(mapSettleDelay))
	}

	var buf []byte
	tasks = append(tasks, chromedp.FullScreenshot(&buf, screenshotQuality))
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, err
	}
	return buf, nil
}

// PageURL builds the dashboard URL for one view and region.
func PageURL(baseURL, view, region string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("snapshot: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("snapshot: base url %q must be absolute", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set("view", view)
	if models.IsAllRegions(region) {
		region = models.AllRegions
	}
	q.Set("region", region)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FileName is the screenshot file name for one view and region, e.g.
// sipeta_summary_kota_bandung.png.
func FileName(view, region string) string {
	return fmt.Sprintf("sipeta_%s_%s.png", utils.Slugify(view), utils.Slugify(models.RegionLabel(region)))
}

// findChromeBinary prefers the configured path, then CHROME_BIN, then
// well-known binary names and install locations. Empty means let chromedp
// decide.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func displayBinary(bin string) string {
	if strings.TrimSpace(bin) == "" {
		return "(chromedp default)"
	}
	return bin
}
