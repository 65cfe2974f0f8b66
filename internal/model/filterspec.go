package model

import (
	"fmt"
	"strings"
)

// SaveAll is the sentinel threshold meaning "no save-percentage constraint".
const SaveAll = -1

// PointsBucket names a loyalty-points range filter.
type PointsBucket string

// Known points buckets. PointsAll matches every deal.
const (
	PointsAll  PointsBucket = "All"
	PointsLow  PointsBucket = "100-999"
	PointsMid  PointsBucket = "1000-9999"
	PointsHigh PointsBucket = "10000+"
)

// Contains reports whether pts falls inside the bucket's half-open range.
func (b PointsBucket) Contains(pts int) bool {
	switch b {
	case PointsAll:
		return true
	case PointsLow:
		return pts >= 100 && pts < 1000
	case PointsMid:
		return pts >= 1000 && pts < 10000
	case PointsHigh:
		return pts >= 10000
	default:
		return false
	}
}

// Valid reports whether b is one of the known buckets.
func (b PointsBucket) Valid() bool {
	switch b {
	case PointsAll, PointsLow, PointsMid, PointsHigh:
		return true
	}
	return false
}

// FilterSpec is the active filter state. A nil or empty Provinces/Retailers
// slice means no constraint on that dimension.
type FilterSpec struct {
	Provinces      []string
	Retailers      []string
	BrandSubstring string
	SaveThreshold  int
	PointsBucket   PointsBucket
	MagicHour      bool
}

// NewFilterSpec returns a spec with every dimension unconstrained.
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		SaveThreshold: SaveAll,
		PointsBucket:  PointsAll,
	}
}

// Clear resets every dimension to its unconstrained state.
func (s *FilterSpec) Clear() {
	*s = NewFilterSpec()
}

// SetProvinces replaces the province selection. Values equal to "All"
// (case-insensitive) clear the constraint, matching the UI sentinel.
func (s *FilterSpec) SetProvinces(provinces ...string) {
	s.Provinces = withoutAllSentinel(provinces)
}

// SetRetailers replaces the retailer selection, with the same "All" handling
// as SetProvinces.
func (s *FilterSpec) SetRetailers(retailers ...string) {
	s.Retailers = withoutAllSentinel(retailers)
}

// SetBrandSubstring sets the case-insensitive brand containment filter.
func (s *FilterSpec) SetBrandSubstring(substr string) {
	s.BrandSubstring = strings.ToLower(strings.TrimSpace(substr))
}

// SetSaveThreshold sets the minimum save percentage, or SaveAll to clear it.
func (s *FilterSpec) SetSaveThreshold(threshold int) {
	if threshold < 0 {
		threshold = SaveAll
	}
	s.SaveThreshold = threshold
}

// SetPointsBucket selects a loyalty-points bucket. Unknown names fall back to
// PointsAll rather than silently matching nothing.
func (s *FilterSpec) SetPointsBucket(bucket PointsBucket) {
	if !bucket.Valid() {
		bucket = PointsAll
	}
	s.PointsBucket = bucket
}

// ToggleMagicHour flips magic-hour mode and returns the new state. The other
// dimensions keep their values and resume when the mode is toggled off.
func (s *FilterSpec) ToggleMagicHour() bool {
	s.MagicHour = !s.MagicHour
	return s.MagicHour
}

// Describe renders a short human-readable summary of the active constraints.
func (s FilterSpec) Describe() string {
	if s.MagicHour {
		return "magic hour"
	}

	var parts []string
	if len(s.Provinces) > 0 {
		parts = append(parts, "province "+strings.Join(s.Provinces, "/"))
	}
	if len(s.Retailers) > 0 {
		parts = append(parts, "retailer "+strings.Join(s.Retailers, "/"))
	}
	if s.BrandSubstring != "" {
		parts = append(parts, "brand ~"+s.BrandSubstring)
	}
	if s.SaveThreshold != SaveAll {
		parts = append(parts, fmt.Sprintf("save >= %d%%", s.SaveThreshold))
	}
	if s.PointsBucket != PointsAll {
		parts = append(parts, "points "+string(s.PointsBucket))
	}
	if len(parts) == 0 {
		return "all deals"
	}
	return strings.Join(parts, ", ")
}

func withoutAllSentinel(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "All") {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
