package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sipeta/models"
)

// Sheet names used by the workbook export.
const (
	ListingsSheet   = "Data_UMKM"
	CategoriesSheet = "Kompetisi_Kategori"
)

// WriteXLSX writes listings to a workbook with one row per listing, plus a
// second sheet with the per-category competition table.
func WriteXLSX(w io.Writer, listings []models.Listing, categories []models.CategoryStat) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ListingsSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	// Stream writer for the potentially large listings sheet.
	sw, err := f.NewStreamWriter(ListingsSheet)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}

	for i, l := range listings {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			l.Name, l.Region, l.Category, l.Rating,
			coordCell(l.Lat), coordCell(l.Lng), string(l.Group),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}

	if _, err := f.NewSheet(CategoriesSheet); err != nil {
		return fmt.Errorf("xlsx: categories sheet: %w", err)
	}
	for i, h := range []string{"Kategori", "Total", "Avg_Rating"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(CategoriesSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx: categories header: %w", err)
		}
	}
	ratingStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("xlsx: rating style: %w", err)
	}
	for i, c := range categories {
		row := i + 2
		if err := f.SetSheetRow(CategoriesSheet, fmt.Sprintf("A%d", row), &[]interface{}{c.Category, c.Count, c.MeanRating}); err != nil {
			return fmt.Errorf("xlsx: category row %d: %w", row, err)
		}
	}
	if len(categories) > 0 {
		last := fmt.Sprintf("C%d", len(categories)+1)
		if err := f.SetCellStyle(CategoriesSheet, "C2", last, ratingStyle); err != nil {
			return fmt.Errorf("xlsx: rating format: %w", err)
		}
	}
	if err := f.SetColWidth(CategoriesSheet, "A", "A", 28); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// WriteXLSXFile writes the workbook to path, creating parent directories.
func WriteXLSXFile(path string, listings []models.Listing, categories []models.CategoryStat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xlsx: create file %q: %w", path, err)
	}
	if err := WriteXLSX(out, listings, categories); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// coordCell leaves missing coordinates as empty cells.
func coordCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
