package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"sipeta/models"
	"sipeta/utils"
)

// marketPotentialThreshold splits "High" from "Medium": a low average
// rating means the incumbents are weak.
const marketPotentialThreshold = 4.3

// Count returns the number of listings.
func Count(listings []models.Listing) int {
	return len(listings)
}

// MeanRating returns the arithmetic mean rating, or NaN for no listings.
func MeanRating(listings []models.Listing) float64 {
	if len(listings) == 0 {
		return math.NaN()
	}
	var total float64
	for _, l := range listings {
		total += l.Rating
	}
	return total / float64(len(listings))
}

// ModalGroup returns the most frequent business group. Ties go to the group
// that comes first in models.BusinessGroups.
func ModalGroup(listings []models.Listing) (models.BusinessGroup, bool) {
	return MostSaturated(listings)
}

// MarketPotentialOf labels the view High when its mean rating is below 4.3
// and Medium otherwise. It is undefined for no listings.
func MarketPotentialOf(listings []models.Listing) (models.MarketPotential, bool) {
	if len(listings) == 0 {
		return "", false
	}
	if MeanRating(listings) < marketPotentialThreshold {
		return models.PotentialHigh, true
	}
	return models.PotentialMedium, true
}

// GroupByCategory aggregates count and mean rating per distinct category,
// sorted by count descending and then by category name.
func GroupByCategory(listings []models.Listing) []models.CategoryStat {
	type acc struct {
		count int
		sum   float64
	}
	byCat := make(map[string]*acc)
	for _, l := range listings {
		a, ok := byCat[l.Category]
		if !ok {
			a = &acc{}
			byCat[l.Category] = a
		}
		a.count++
		a.sum += l.Rating
	}

	stats := make([]models.CategoryStat, 0, len(byCat))
	for cat, a := range byCat {
		stats = append(stats, models.CategoryStat{
			Category:   cat,
			Count:      a.count,
			MeanRating: a.sum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// BoundingBox returns the rectangle around every located listing.
func BoundingBox(listings []models.Listing) (models.Bounds, bool) {
	var b models.Bounds
	found := false
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		p := l.Point()
		if !found {
			b = models.Bounds{MinLat: p.Lat, MinLng: p.Lng, MaxLat: p.Lat, MaxLng: p.Lng}
			found = true
			continue
		}
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b, found
}

// LeastSaturated returns the present group with the fewest listings.
func LeastSaturated(listings []models.Listing) (models.BusinessGroup, bool) {
	counts := groupCounts(listings)
	if len(counts) == 0 {
		return "", false
	}
	best := counts[0]
	for _, gc := range counts[1:] {
		if gc.count < best.count {
			best = gc
		}
	}
	return best.group, true
}

// MostSaturated returns the present group with the most listings.
func MostSaturated(listings []models.Listing) (models.BusinessGroup, bool) {
	counts := groupCounts(listings)
	if len(counts) == 0 {
		return "", false
	}
	best := counts[0]
	for _, gc := range counts[1:] {
		if gc.count > best.count {
			best = gc
		}
	}
	return best.group, true
}

// MarketStructure breaks the view down into groups and their categories,
// in canonical group order.
func MarketStructure(listings []models.Listing) []models.GroupStat {
	byGroup := make(map[models.BusinessGroup][]models.Listing)
	for _, l := range listings {
		g := groupOf(l)
		byGroup[g] = append(byGroup[g], l)
	}

	out := make([]models.GroupStat, 0, len(byGroup))
	for _, gc := range groupCounts(listings) {
		members := byGroup[gc.group]
		var sum float64
		for _, l := range members {
			sum += l.Rating
		}
		out = append(out, models.GroupStat{
			Group:      gc.group,
			Count:      gc.count,
			RatingSum:  sum,
			Categories: GroupByCategory(members),
		})
	}
	return out
}

type groupCount struct {
	group models.BusinessGroup
	count int
}

// groupCounts returns the present groups in canonical order. Any label
// outside models.BusinessGroups sorts after them, by name.
func groupCounts(listings []models.Listing) []groupCount {
	counts := make(map[models.BusinessGroup]int)
	for _, l := range listings {
		counts[groupOf(l)]++
	}
	out := make([]groupCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, groupCount{group: g, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].group.Rank(), out[j].group.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].group < out[j].group
	})
	return out
}

func groupOf(l models.Listing) models.BusinessGroup {
	if l.Group != "" {
		return l.Group
	}
	return Classify(l.Category)
}

// InsightService builds summary reports for a region view.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the summary view. Values that are undefined for an
// empty view are left unset.
func (s *InsightService) Generate(region string, listings []models.Listing) *models.SummaryReport {
	report := &models.SummaryReport{
		Region:        region,
		RegionLabel:   models.RegionLabel(region),
		TotalListings: Count(listings),
		Categories:    GroupByCategory(listings),
		Structure:     MarketStructure(listings),
		GeneratedAt:   time.Now(),
	}

	if report.Empty() {
		s.logger.Debug("[insights] Region %q has no listings", region)
		return report
	}

	mean := round2(MeanRating(listings))
	report.AverageRating = &mean
	report.DominantGroup, _ = ModalGroup(listings)
	report.MarketPotential, _ = MarketPotentialOf(listings)
	report.LeastSaturated, _ = LeastSaturated(listings)
	report.MostSaturated, _ = MostSaturated(listings)

	s.logger.Debug("[insights] Region %q: %d listings, mean rating %.2f", region, report.TotalListings, mean)
	return report
}

// Print renders the report for a terminal.
func (s *InsightService) Print(w io.Writer, r *models.SummaryReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 UMKM SUMMARY – %s\033[0m\n", r.RegionLabel)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total UMKM        : \033[1m%d\033[0m\n", r.TotalListings)
	if r.Empty() {
		fmt.Fprintf(w, "  Average rating    : N/A\n")
		fmt.Fprintf(w, "  Densest sector    : N/A\n")
		fmt.Fprintf(w, "  Market potential  : N/A\n")
		fmt.Fprintf(w, "\n  No data for this region.\n")
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}
	fmt.Fprintf(w, "  Average rating    : \033[1;32m%.2f ★\033[0m\n", *r.AverageRating)
	fmt.Fprintf(w, "  Densest sector    : \033[1m%s\033[0m\n", r.DominantGroup)
	fmt.Fprintf(w, "  Market potential  : \033[1m%s\033[0m\n", r.MarketPotential)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Opportunities\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Market gap        : %s has the least competition\n", r.LeastSaturated)
	fmt.Fprintf(w, "  High saturation   : %s is very crowded\n", r.MostSaturated)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Category\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range r.Categories {
		bar := strings.Repeat("█", min(c.Count, 40))
		fmt.Fprintf(w, "  %-24s %s (%d, avg %.2f)\n", truncate(c.Category, 22), bar, c.Count, c.MeanRating)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
