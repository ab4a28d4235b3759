package services

import (
	"sort"

	"github.com/mmcloughlin/geohash"

	"sipeta/models"
)

const (
	regionZoom = 11
	focusZoom  = 18

	// DefaultClusterPrecision is a geohash length of 5, cells of roughly 5 km.
	DefaultClusterPrecision = 5
)

// MapQuery is the set of map controls a user can change.
type MapQuery struct {
	Region    string
	Keyword   string
	Heatmap   bool
	Focus     string
	Precision int
}

// BuildMapView applies the region filter, drops unlocated rows, applies the
// name search and assembles markers, clusters and the optional heat layer.
func BuildMapView(listings []models.Listing, q MapQuery) *models.MapView {
	rows := FilterByKeyword(WithCoordinates(FilterByRegion(listings, q.Region)), q.Keyword)

	view := &models.MapView{
		Region:   q.Region,
		Keyword:  q.Keyword,
		Center:   models.CenterFor(q.Region),
		Zoom:     regionZoom,
		Markers:  []models.MapMarker{},
		Clusters: []models.Cluster{},
		Options:  ListingNames(rows),
		Table:    rows,
	}
	if len(rows) == 0 {
		view.Empty = true
		return view
	}

	focus, focused := FindByName(rows, q.Focus)
	if focused {
		m := marker(focus)
		view.Focus = &m
		view.Center = focus.Point()
		view.Zoom = focusZoom
	} else if b, ok := BoundingBox(rows); ok {
		view.Bounds = &b
	}

	if q.Heatmap {
		view.Heat = make([][2]float64, 0, len(rows))
		for _, l := range rows {
			p := l.Point()
			view.Heat = append(view.Heat, [2]float64{p.Lat, p.Lng})
		}
	}

	pins := make([]models.Listing, 0, len(rows))
	for _, l := range rows {
		if focused && l.Name == focus.Name {
			continue
		}
		pins = append(pins, l)
		view.Markers = append(view.Markers, marker(l))
	}
	view.Clusters = Clusters(pins, q.Precision)

	return view
}

// Clusters groups located listings into geohash cells of the given length
// (DefaultClusterPrecision when out of range). Cells are ordered by size,
// then by hash.
func Clusters(listings []models.Listing, precision int) []models.Cluster {
	if precision < 1 || precision > 12 {
		precision = DefaultClusterPrecision
	}

	type acc struct {
		count          int
		lat, lng, rate float64
	}
	cells := make(map[string]*acc)
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		p := l.Point()
		hash := geohash.EncodeWithPrecision(p.Lat, p.Lng, uint(precision))
		a, ok := cells[hash]
		if !ok {
			a = &acc{}
			cells[hash] = a
		}
		a.count++
		a.lat += p.Lat
		a.lng += p.Lng
		a.rate += l.Rating
	}

	out := make([]models.Cluster, 0, len(cells))
	for hash, a := range cells {
		n := float64(a.count)
		out = append(out, models.Cluster{
			Geohash:    hash,
			Count:      a.count,
			Center:     models.Coordinate{Lat: a.lat / n, Lng: a.lng / n},
			MeanRating: a.rate / n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Geohash < out[j].Geohash
	})
	return out
}

func marker(l models.Listing) models.MapMarker {
	p := l.Point()
	return models.MapMarker{ID: l.ID, Name: l.Name, Lat: p.Lat, Lng: p.Lng, Rating: l.Rating}
}
