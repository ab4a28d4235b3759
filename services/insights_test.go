package services

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"sipeta/models"
)

func ptr(f float64) *float64 { return &f }

func listing(name, region, category string, rating float64) models.Listing {
	return models.Listing{Name: name, Region: region, Category: category, Rating: rating, Group: Classify(category)}
}

func located(name string, lat, lng float64) models.Listing {
	l := listing(name, "Kota Bandung", "Mie", 4.5)
	l.Lat, l.Lng = ptr(lat), ptr(lng)
	return l
}

func TestCountAndMeanRating(t *testing.T) {
	ls := []models.Listing{
		listing("A", "X", "Nasi", 4.0),
		listing("B", "X", "Nasi", 5.0),
		listing("C", "X", "Nasi", 3.0),
	}
	if Count(ls) != 3 {
		t.Errorf("Count: got %d, want 3", Count(ls))
	}
	if got := MeanRating(ls); got != 4.0 {
		t.Errorf("MeanRating: got %v, want 4.0", got)
	}
	if Count(nil) != 0 {
		t.Errorf("Count(nil) should be 0")
	}
	if !math.IsNaN(MeanRating(nil)) {
		t.Errorf("MeanRating of empty input should be NaN")
	}
}

func TestMarketPotential(t *testing.T) {
	tests := []struct {
		ratings []float64
		want    models.MarketPotential
	}{
		{[]float64{4.2}, models.PotentialHigh},
		{[]float64{4.5}, models.PotentialMedium},
		{[]float64{4.3}, models.PotentialMedium},
		{[]float64{4.0, 4.6}, models.PotentialMedium},
		{[]float64{0, 5}, models.PotentialHigh},
	}
	for _, tt := range tests {
		var ls []models.Listing
		for _, r := range tt.ratings {
			ls = append(ls, listing("n", "X", "Kopi", r))
		}
		got, ok := MarketPotentialOf(ls)
		if !ok || got != tt.want {
			t.Errorf("MarketPotentialOf(%v) = (%q, %v); want (%q, true)", tt.ratings, got, ok, tt.want)
		}
	}

	if _, ok := MarketPotentialOf(nil); ok {
		t.Errorf("MarketPotentialOf(empty) should be undefined")
	}
}

func TestModalGroup(t *testing.T) {
	ls := []models.Listing{
		listing("a", "X", "Sate Ayam", 4),
		listing("b", "X", "Ayam Bakar", 4),
		listing("c", "X", "Bakso", 4),
	}
	got, ok := ModalGroup(ls)
	if !ok || got != models.GroupGrilled {
		t.Errorf("ModalGroup = (%q, %v); want %q", got, ok, models.GroupGrilled)
	}
	if _, ok := ModalGroup(nil); ok {
		t.Errorf("ModalGroup(empty) should be undefined")
	}
}

func TestModalGroupTieUsesCanonicalOrder(t *testing.T) {
	// Row order must not matter: Snacks appears first but Rice ranks earlier.
	ls := []models.Listing{
		listing("a", "X", "Roti", 4),
		listing("b", "X", "Soto", 4),
		listing("c", "X", "Kue", 4),
		listing("d", "X", "Nasi Uduk", 4),
	}
	got, _ := ModalGroup(ls)
	if got != models.GroupRice {
		t.Errorf("ModalGroup tie = %q; want %q", got, models.GroupRice)
	}
}

func TestSaturation(t *testing.T) {
	ls := []models.Listing{
		listing("a", "X", "Bakso", 4),
		listing("b", "X", "Bakso", 4),
		listing("c", "X", "Bakso", 4),
		listing("d", "X", "Kopi", 4),
		listing("e", "X", "Roti", 4),
		listing("f", "X", "Nasi", 4),
		listing("g", "X", "Nasi", 4),
	}
	least, ok := LeastSaturated(ls)
	if !ok || least != models.GroupSnacks {
		// Snacks and Other both have 1; Snacks ranks first.
		t.Errorf("LeastSaturated = %q; want %q", least, models.GroupSnacks)
	}
	most, ok := MostSaturated(ls)
	if !ok || most != models.GroupNoodles {
		t.Errorf("MostSaturated = %q; want %q", most, models.GroupNoodles)
	}

	if _, ok := LeastSaturated(nil); ok {
		t.Errorf("LeastSaturated(empty) should be undefined")
	}
	if _, ok := MostSaturated(nil); ok {
		t.Errorf("MostSaturated(empty) should be undefined")
	}
}

func TestGroupByCategory(t *testing.T) {
	ls := []models.Listing{
		listing("a", "X", "Sate", 4.0),
		listing("b", "X", "Mie", 3.0),
		listing("c", "X", "Sate", 5.0),
		listing("d", "X", "Kopi", 4.0),
		listing("e", "X", "Bakso", 4.2),
	}
	got := GroupByCategory(ls)
	want := []models.CategoryStat{
		{Category: "Sate", Count: 2, MeanRating: 4.5},
		{Category: "Bakso", Count: 1, MeanRating: 4.2},
		{Category: "Kopi", Count: 1, MeanRating: 4.0},
		{Category: "Mie", Count: 1, MeanRating: 3.0},
	}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Category != want[i].Category || got[i].Count != want[i].Count ||
			math.Abs(got[i].MeanRating-want[i].MeanRating) > 1e-9 {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Errorf("not sorted by count descending at %d", i)
		}
	}

	if len(GroupByCategory(nil)) != 0 {
		t.Errorf("empty input should give no rows")
	}
}

func TestBoundingBox(t *testing.T) {
	ls := []models.Listing{
		located("a", 1, 2),
		located("b", 3, 4),
		listing("no-coords", "X", "Mie", 4),
		located("c", 0, 5),
	}
	got, ok := BoundingBox(ls)
	want := models.Bounds{MinLat: 0, MinLng: 2, MaxLat: 3, MaxLng: 5}
	if !ok || got != want {
		t.Errorf("BoundingBox = (%+v, %v); want %+v", got, ok, want)
	}

	if _, ok := BoundingBox([]models.Listing{listing("x", "X", "Mie", 1)}); ok {
		t.Errorf("BoundingBox without coordinates should be undefined")
	}
}

func TestMarketStructure(t *testing.T) {
	ls := []models.Listing{
		listing("a", "X", "Kopi", 4),
		listing("b", "X", "Bakso", 4),
		listing("c", "X", "Mie", 3),
		listing("d", "X", "Bakso", 5),
	}
	got := MarketStructure(ls)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Group != models.GroupNoodles || got[0].Count != 3 || got[0].RatingSum != 12 {
		t.Errorf("first group: %+v", got[0])
	}
	if got[0].Categories[0].Category != "Bakso" || got[0].Categories[0].Count != 2 {
		t.Errorf("noodles categories: %+v", got[0].Categories)
	}
	if got[1].Group != models.GroupOther {
		t.Errorf("second group: got %q, want %q", got[1].Group, models.GroupOther)
	}
}

func TestEndToEndRegionSummary(t *testing.T) {
	ds := NewDataset([]models.Listing{
		{Name: "A", Region: "X", Rating: 4.0, Category: "Nasi Goreng"},
		{Name: "B", Region: "Y", Rating: 4.5, Category: "Sate Ayam"},
		{Name: "C", Region: "X", Rating: 3.0, Category: "Mie Ayam"},
	}, "test")

	view := ds.Region("X")
	if len(view) != 2 || view[0].Name != "A" || view[1].Name != "C" {
		t.Fatalf("region X view: %+v", view)
	}
	if got := MeanRating(view); got != 3.5 {
		t.Errorf("mean rating: got %v, want 3.5", got)
	}

	// Rice & Soup and Noodles & Meatball Soup tie at one listing each;
	// the canonical order puts Noodles first.
	modal, ok := ModalGroup(view)
	if !ok || modal != models.GroupNoodles {
		t.Errorf("modal group: got %q, want %q", modal, models.GroupNoodles)
	}

	report := NewInsightService(newTestLogger()).Generate("X", view)
	if report.TotalListings != 2 {
		t.Errorf("report total: got %d", report.TotalListings)
	}
	if report.AverageRating == nil || *report.AverageRating != 3.5 {
		t.Errorf("report average: got %v", report.AverageRating)
	}
	if report.DominantGroup != models.GroupNoodles {
		t.Errorf("report dominant group: got %q", report.DominantGroup)
	}
	if report.MarketPotential != models.PotentialHigh {
		t.Errorf("report potential: got %q", report.MarketPotential)
	}
}

func TestGenerateEmptyView(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate("Kab. Garut", nil)
	if !r.Empty() {
		t.Fatalf("expected empty report")
	}
	if r.AverageRating != nil || r.DominantGroup != "" || r.MarketPotential != "" {
		t.Errorf("undefined values should stay unset: %+v", r)
	}

	var buf bytes.Buffer
	svc.Print(&buf, r)
	if !strings.Contains(buf.String(), "N/A") {
		t.Errorf("empty report should print placeholders, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "NaN") {
		t.Errorf("empty report must not print NaN")
	}
}

func TestPrintReport(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(models.AllRegions, []models.Listing{
		listing("a", "X", "Bakso", 4.8),
		listing("b", "X", "Kopi", 4.0),
	})

	var buf bytes.Buffer
	svc.Print(&buf, r)
	out := buf.String()
	for _, want := range []string{models.AllRegionsLabel, "4.40", string(models.GroupNoodles), "Bakso"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
