package charts

import (
	"bytes"
	"errors"
	"testing"

	"sipeta/models"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestCategoryBarChartWritesPNG(t *testing.T) {
	stats := []models.CategoryStat{
		{Category: "Bakso", Count: 4, MeanRating: 4.5},
		{Category: "Nasi Goreng", Count: 2, MeanRating: 3.9},
	}
	var buf bytes.Buffer
	if err := CategoryBarChart(&buf, stats, "Jumlah UMKM per Kategori"); err != nil {
		t.Fatalf("CategoryBarChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Errorf("output is not a PNG image")
	}
}

func TestGroupBarChartWritesPNG(t *testing.T) {
	stats := []models.GroupStat{{Group: models.GroupNoodles, Count: 3}, {Group: models.GroupRice, Count: 1}}
	var buf bytes.Buffer
	if err := GroupBarChart(&buf, stats, "Struktur Pasar"); err != nil {
		t.Fatalf("GroupBarChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Errorf("output is not a PNG image")
	}
}

func TestChartsRejectEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := CategoryBarChart(&buf, nil, "x"); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryBarChart: expected ErrNoData, got %v", err)
	}
	if err := GroupBarChart(&buf, nil, "x"); !errors.Is(err, ErrNoData) {
		t.Errorf("GroupBarChart: expected ErrNoData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on error")
	}
}

func TestRatingShadeDarkensWithRating(t *testing.T) {
	low, high := ratingShade(1), ratingShade(4.8)
	if high.G >= low.G {
		t.Errorf("higher rating should be darker: low=%v high=%v", low, high)
	}
	if ratingShade(-3) != ratingShade(0) || ratingShade(9) != ratingShade(5) {
		t.Errorf("ratings outside 0-5 should be clamped")
	}
}
