package services

import (
	"sort"
	"strings"

	"sipeta/models"
)

// FilterByRegion keeps listings whose region equals region exactly.
// The "all regions" selection returns the input unchanged.
func FilterByRegion(listings []models.Listing, region string) []models.Listing {
	if models.IsAllRegions(region) {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Region == region {
			out = append(out, l)
		}
	}
	return out
}

// FilterByKeyword keeps listings whose name contains keyword, ignoring case.
// A blank keyword returns the input unchanged; unnamed listings never match.
func FilterByKeyword(listings []models.Listing, keyword string) []models.Listing {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return listings
	}
	needle := strings.ToLower(keyword)
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(l.Name), needle) {
			out = append(out, l)
		}
	}
	return out
}

// WithCoordinates keeps listings that can be placed on a map.
func WithCoordinates(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.HasCoordinates() {
			out = append(out, l)
		}
	}
	return out
}

// ListingNames returns the distinct non-empty names, sorted.
func ListingNames(listings []models.Listing) []string {
	seen := make(map[string]struct{}, len(listings))
	names := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.Name == "" {
			continue
		}
		if _, dup := seen[l.Name]; dup {
			continue
		}
		seen[l.Name] = struct{}{}
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

// FindByName returns the first listing named exactly name.
func FindByName(listings []models.Listing, name string) (models.Listing, bool) {
	if name == "" {
		return models.Listing{}, false
	}
	for _, l := range listings {
		if l.Name == name {
			return l, true
		}
	}
	return models.Listing{}, false
}
