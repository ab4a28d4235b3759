package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sipeta/models"
)

func f64(v float64) *float64 { return &v }

func sampleListings() []models.Listing {
	return []models.Listing{
		{ID: 1, Name: "Bakso Boedjangan", Region: "Kota Bandung", Category: "Bakso", Rating: 4.6,
			Lat: f64(-6.91), Lng: f64(107.61), Group: models.GroupNoodles},
		{ID: 2, Name: "Warung, Nasi", Region: "Kab. Garut", Category: "Nasi", Rating: 0, Group: models.GroupRice},
	}
}

func TestCSVWriterWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Write(sampleListings()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Nama,Wilayah,Kategori,Rating,lat,lng,Kelompok_Bisnis" {
		t.Errorf("header: %q", lines[0])
	}
	if lines[1] != "Bakso Boedjangan,Kota Bandung,Bakso,4.6,-6.91,107.61,Noodles & Meatball Soup" {
		t.Errorf("row 1: %q", lines[1])
	}
	if lines[2] != `"Warung, Nasi",Kab. Garut,Nasi,0,,,Rice & Soup` {
		t.Errorf("row 2: %q", lines[2])
	}
}

func TestCSVExportCanBeReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.csv")
	w, err := CreateCSVFile(path)
	if err != nil {
		t.Fatalf("CreateCSVFile: %v", err)
	}
	if err := w.Write(sampleListings()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
	rows, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile: %v", err)
	}
	if len(rows) != 2 || rows[1].Name != "Warung, Nasi" || rows[0].Lng != "107.61" {
		t.Errorf("round trip mismatch: %+v %+v", rows[0], rows[1])
	}
}

func TestExportFileName(t *testing.T) {
	if got := ExportFileName(models.AllRegions, "xlsx"); got != "umkm_daerah_jawa_barat.xlsx" {
		t.Errorf("got %q", got)
	}
	if got := ExportFileName("Kota Bandung", "csv"); got != "umkm_kota_bandung.csv" {
		t.Errorf("got %q", got)
	}
}
