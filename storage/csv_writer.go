package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"sipeta/models"
	"sipeta/utils"
)

// exportHeader is the source header plus the derived group column, so an
// export can be loaded again as input.
var exportHeader = []string{ColName, ColRegion, ColCategory, ColRating, ColLat, ColLng, "Kelompok_Bisnis"}

// CSVWriter writes listings as CSV. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter writes the header row to w and returns a writer for listings.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CSVWriter{writer: cw}, nil
}

// CreateCSVFile creates (or truncates) the CSV file at path and writes the
// header row. Intermediate directories are created automatically.
func CreateCSVFile(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends listings and flushes.
func (c *CSVWriter) Write(listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Name,
			l.Region,
			l.Category,
			strconv.FormatFloat(l.Rating, 'f', -1, 64),
			formatCoord(l.Lat),
			formatCoord(l.Lng),
			string(l.Group),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if the writer owns one.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ExportFileName is the file name for a region export, e.g.
// umkm_kota_bandung.xlsx.
func ExportFileName(region, ext string) string {
	return fmt.Sprintf("umkm_%s.%s", utils.Slugify(models.RegionLabel(region)), ext)
}
