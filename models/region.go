package models

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Region is one entry of the fixed region selector.
type Region struct {
	Name   string     `json:"name"`
	Center Coordinate `json:"center"`
}

const (
	// AllRegions is the selector value that disables region filtering.
	AllRegions = "all"
	// AllRegionsLabel is how AllRegions is shown to users.
	AllRegionsLabel = "Daerah Jawa Barat"
)

// DefaultCenter is used when the selection has no centroid of its own.
var DefaultCenter = Coordinate{Lat: -6.9175, Lng: 107.6191}

// Regions is the static centroid table, in selector order.
var Regions = []Region{
	{Name: "Kota Bandung", Center: Coordinate{Lat: -6.9175, Lng: 107.6191}},
	{Name: "Kab. Bandung", Center: Coordinate{Lat: -7.0251, Lng: 107.5197}},
	{Name: "Kab. Bandung Barat", Center: Coordinate{Lat: -6.8452, Lng: 107.4478}},
	{Name: "Kota Bogor", Center: Coordinate{Lat: -6.5971, Lng: 106.8060}},
	{Name: "Kab. Bogor", Center: Coordinate{Lat: -6.4797, Lng: 106.8249}},
	{Name: "Kota Depok", Center: Coordinate{Lat: -6.4025, Lng: 106.7942}},
	{Name: "Kota Bekasi", Center: Coordinate{Lat: -6.2383, Lng: 106.9756}},
	{Name: "Kab. Bekasi", Center: Coordinate{Lat: -6.2651, Lng: 107.1265}},
	{Name: "Kab. Karawang", Center: Coordinate{Lat: -6.3073, Lng: 107.2931}},
	{Name: "Kab. Garut", Center: Coordinate{Lat: -7.2232, Lng: 107.9000}},
}

// IsAllRegions reports whether region selects the whole province.
// The empty string counts as "all" so callers can omit the parameter.
func IsAllRegions(region string) bool {
	return region == "" || region == AllRegions
}

// CenterFor returns the centroid for region, falling back to DefaultCenter
// for "all" and for names outside the table.
func CenterFor(region string) Coordinate {
	for _, r := range Regions {
		if r.Name == region {
			return r.Center
		}
	}
	return DefaultCenter
}

// RegionLabel returns the display label for a selector value.
func RegionLabel(region string) string {
	if IsAllRegions(region) {
		return AllRegionsLabel
	}
	return region
}
