package models

// RawListing holds one CSV row exactly as read from disk.
// Nothing is parsed yet; the cleaner turns it into a Listing.
type RawListing struct {
	Row      int
	Name     string
	Region   string
	Category string
	Rating   string
	Lat      string
	Lng      string
}

// Listing is a cleaned UMKM record. Lat and Lng are nil when the source
// row had no usable coordinate.
type Listing struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Region   string        `json:"region"`
	Category string        `json:"category"`
	Rating   float64       `json:"rating"`
	Lat      *float64      `json:"lat"`
	Lng      *float64      `json:"lng"`
	Group    BusinessGroup `json:"group"`
}

// HasCoordinates reports whether both coordinates are present.
func (l Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// Point returns the listing position. Only valid when HasCoordinates is true.
func (l Listing) Point() Coordinate {
	return Coordinate{Lat: *l.Lat, Lng: *l.Lng}
}

// BusinessGroup is the five-way bucket derived from a listing's category.
type BusinessGroup string

const (
	GroupNoodles BusinessGroup = "Noodles & Meatball Soup"
	GroupGrilled BusinessGroup = "Grilled/Fried Side Dishes"
	GroupRice    BusinessGroup = "Rice & Soup"
	GroupSnacks  BusinessGroup = "Snacks"
	GroupOther   BusinessGroup = "Other Culinary"
)

// BusinessGroups lists every group in canonical order. Ties between groups
// are always resolved by position in this slice.
var BusinessGroups = []BusinessGroup{
	GroupNoodles,
	GroupGrilled,
	GroupRice,
	GroupSnacks,
	GroupOther,
}

// Rank returns the canonical position of g, or len(BusinessGroups) for an
// unknown label.
func (g BusinessGroup) Rank() int {
	for i, known := range BusinessGroups {
		if known == g {
			return i
		}
	}
	return len(BusinessGroups)
}

// MarketPotential is the coarse opportunity label shown on the summary view.
type MarketPotential string

const (
	PotentialHigh   MarketPotential = "High"
	PotentialMedium MarketPotential = "Medium"
)
