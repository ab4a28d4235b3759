package services

import (
	"time"

	"sipeta/models"
)

// Dataset is the loaded listing table. It is built once at startup, never
// modified afterwards, and safe to share between requests.
type Dataset struct {
	listings []models.Listing
	source   string
	loadedAt time.Time
}

// NewDataset deep-copies listings, numbers them by position (from 1),
// derives every listing's business group and freezes the result. source is
// a human-readable origin such as a file path.
func NewDataset(listings []models.Listing, source string) *Dataset {
	own := make([]models.Listing, len(listings))
	for i, l := range listings {
		l = clone(l)
		l.ID = int64(i + 1)
		l.Group = Classify(l.Category)
		own[i] = l
	}
	return &Dataset{
		listings: own,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Listings returns a deep copy of the full table in load order.
func (d *Dataset) Listings() []models.Listing {
	out := make([]models.Listing, len(d.listings))
	for i, l := range d.listings {
		out[i] = clone(l)
	}
	return out
}

// Region returns the listings of one region (or all of them).
func (d *Dataset) Region(region string) []models.Listing {
	return FilterByRegion(d.Listings(), region)
}

// Len returns the number of listings.
func (d *Dataset) Len() int { return len(d.listings) }

// Source returns where the data was loaded from.
func (d *Dataset) Source() string { return d.source }

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// clone copies l including its coordinate pointers.
func clone(l models.Listing) models.Listing {
	if l.Lat != nil {
		lat := *l.Lat
		l.Lat = &lat
	}
	if l.Lng != nil {
		lng := *l.Lng
		l.Lng = &lng
	}
	return l
}
