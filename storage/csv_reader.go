package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"sipeta/models"
)

var (
	// ErrDataFileNotFound is returned when the listing CSV does not exist.
	ErrDataFileNotFound = errors.New("data file not found")
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// Source column names.
const (
	ColName     = "Nama"
	ColRegion   = "Wilayah"
	ColCategory = "Kategori"
	ColRating   = "Rating"
	ColLat      = "lat"
	ColLng      = "lng"
)

var requiredColumns = []string{ColName, ColRegion, ColCategory, ColRating}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]*models.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("csv: %s: %w", path, ErrDataFileNotFound)
		}
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses listing rows. Columns are located by header name; lat and
// lng are optional. Short rows are padded with empty fields.
func ReadCSV(r io.Reader) ([]*models.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty file: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv: %w: %s", ErrMissingColumn, col)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []*models.RawListing
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("csv: read row %d: %w", line+1, err)
		}
		line++
		rows = append(rows, &models.RawListing{
			Row:      line,
			Name:     field(rec, ColName),
			Region:   field(rec, ColRegion),
			Category: field(rec, ColCategory),
			Rating:   field(rec, ColRating),
			Lat:      field(rec, ColLat),
			Lng:      field(rec, ColLng),
		})
	}
	return rows, nil
}
