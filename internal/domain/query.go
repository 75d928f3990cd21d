package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DisasterCategory is one of the fixed disaster types a family can search by.
type DisasterCategory string

const (
	DisasterFlood      DisasterCategory = "Flood / Storm Surge"
	DisasterHurricane  DisasterCategory = "Hurricane / Tropical Storm"
	DisasterTornado    DisasterCategory = "Severe Storm / Tornado"
	DisasterWildfire   DisasterCategory = "Wildfire"
	DisasterWinter     DisasterCategory = "Winter Storm / Ice"
	DisasterEarthquake DisasterCategory = "Earthquake"
	DisasterLandslide  DisasterCategory = "Landslide / Mudslide"
	DisasterHeat       DisasterCategory = "Extreme Heat"
	DisasterCold       DisasterCategory = "Extreme Cold"
	DisasterOther      DisasterCategory = "Other"

	// DefaultDisaster is preselected on a fresh search form.
	DefaultDisaster = DisasterFlood
)

// ErrUnknownCategory is returned for labels outside the known category list.
var ErrUnknownCategory = errors.New("unknown disaster category")

var disasterCategories = []DisasterCategory{
	DisasterFlood,
	DisasterHurricane,
	DisasterTornado,
	DisasterWildfire,
	DisasterWinter,
	DisasterEarthquake,
	DisasterLandslide,
	DisasterHeat,
	DisasterCold,
	DisasterOther,
}

// DisasterCategories returns the known categories in display order.
func DisasterCategories() []DisasterCategory {
	out := make([]DisasterCategory, len(disasterCategories))
	copy(out, disasterCategories)
	return out
}

// ParseDisasterCategory matches a label against the known categories,
// ignoring case and surrounding whitespace.
func ParseDisasterCategory(s string) (DisasterCategory, error) {
	s = strings.TrimSpace(s)
	for _, c := range disasterCategories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Matches reports whether p can be listed for this category. Providers do not
// yet declare which disasters they cover, so every category matches.
func (c DisasterCategory) Matches(Provider) bool {
	return true
}

// Query is one submitted search.
type Query struct {
	Disaster DisasterCategory `json:"disaster"`
	Location string           `json:"location"`
}

// Evaluate filters providers for a query, preserving input order. Location is
// trimmed and matched case-insensitively as a substring of Regions; blank
// location matches everything. The result is never nil.
func Evaluate(providers []Provider, q Query) []Provider {
	loc := strings.ToLower(strings.TrimSpace(q.Location))

	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if !q.Disaster.Matches(p) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(p.Regions), loc) {
			continue
		}
		out = append(out, p)
	}
	return out
}
