package models

import "time"

// SummaryReport holds the computed analytics for one region view.
// Fields that are undefined for an empty view stay nil or empty.
type SummaryReport struct {
	Region          string          `json:"region"`
	RegionLabel     string          `json:"region_label"`
	TotalListings   int             `json:"total_listings"`
	AverageRating   *float64        `json:"average_rating"`
	DominantGroup   BusinessGroup   `json:"dominant_group,omitempty"`
	MarketPotential MarketPotential `json:"market_potential,omitempty"`
	LeastSaturated  BusinessGroup   `json:"least_saturated,omitempty"`
	MostSaturated   BusinessGroup   `json:"most_saturated,omitempty"`
	Categories      []CategoryStat  `json:"categories"`
	Structure       []GroupStat     `json:"structure"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Empty reports whether the view had no listings.
func (r *SummaryReport) Empty() bool {
	return r.TotalListings == 0
}

// CategoryStat is one row of the per-category competition table.
type CategoryStat struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	MeanRating float64 `json:"mean_rating"`
}

// GroupStat is one business group with its categories, used for the
// market-structure breakdown.
type GroupStat struct {
	Group      BusinessGroup  `json:"group"`
	Count      int            `json:"count"`
	RatingSum  float64        `json:"rating_sum"`
	Categories []CategoryStat `json:"categories"`
}

// Bounds is the minimal rectangle around a set of points.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// MapMarker is a single listing pin.
type MapMarker struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Rating float64 `json:"rating"`
}

// Cluster groups markers sharing a geohash cell.
type Cluster struct {
	Geohash    string     `json:"geohash"`
	Count      int        `json:"count"`
	Center     Coordinate `json:"center"`
	MeanRating float64    `json:"mean_rating"`
}

// MapView is everything the map page needs for one query.
type MapView struct {
	Region   string       `json:"region"`
	Keyword  string       `json:"keyword"`
	Empty    bool         `json:"empty"`
	Center   Coordinate   `json:"center"`
	Zoom     int          `json:"zoom"`
	Bounds   *Bounds      `json:"bounds,omitempty"`
	Focus    *MapMarker   `json:"focus,omitempty"`
	Markers  []MapMarker  `json:"markers"`
	Clusters []Cluster    `json:"clusters"`
	Heat     [][2]float64 `json:"heat,omitempty"`
	Options  []string     `json:"options"`
	Table    []Listing    `json:"table"`
}
