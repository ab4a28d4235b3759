package services

import (
	"math"
	"strconv"
	"strings"

	"sipeta/models"
	"sipeta/utils"
)

// Cleaner transforms RawListings into typed Listings. It never drops a row:
// bad ratings become 0 and bad coordinates become nil.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw rows in order. IDs and business groups are left for
// NewDataset to assign.
func (c *Cleaner) Clean(raw []*models.RawListing) []models.Listing {
	result := make([]models.Listing, 0, len(raw))
	var coercedRatings, missingCoords int

	for _, r := range raw {
		rating, ok := parseRating(r.Rating)
		if !ok {
			coercedRatings++
			c.logger.Debug("[cleaner] Row %d: rating %q coerced to 0", r.Row, r.Rating)
		}

		lat, latOK := parseCoord(r.Lat, 90)
		lng, lngOK := parseCoord(r.Lng, 180)
		l := models.Listing{
			Name:     strings.TrimSpace(r.Name),
			Region:   strings.TrimSpace(r.Region),
			Category: strings.TrimSpace(r.Category),
			Rating:   rating,
		}
		if latOK {
			l.Lat = &lat
		}
		if lngOK {
			l.Lng = &lng
		}
		if !l.HasCoordinates() {
			missingCoords++
		}

		result = append(result, l)
	}

	c.logger.Info("[cleaner] Cleaned %d listings (ratings coerced: %d, without coordinates: %d)",
		len(result), coercedRatings, missingCoords)
	return result
}

// parseRating returns the numeric rating, or (0, false) when the value is
// empty, unparsable, not finite or negative.
func parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return 0, false
	}
	return val, true
}

// parseCoord parses one coordinate and rejects values outside ±limit.
func parseCoord(raw string, limit float64) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || math.Abs(val) > limit {
		return 0, false
	}
	return val, true
}
