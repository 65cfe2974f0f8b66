// Package filter implements the pure filtering engine over the normalized
// deal collection. Apply never mutates its input; it projects the matching
// subset in input order.
package filter

import (
	"strings"
	"time"

	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/magichour"
	"github.com/dealstack/dealstack/internal/model"
)

// Apply returns the deals matching every constrained dimension of spec.
// Dimensions combine conjunctively; within the province and retailer sets
// membership is disjunctive. Unconstrained dimensions are skipped entirely,
// so an empty spec matches everything. The relative order of matches mirrors
// the input.
func Apply(deals []model.Deal, spec model.FilterSpec) []model.Deal {
	out := make([]model.Deal, 0, len(deals))
	for i := range deals {
		if matches(&deals[i], spec) {
			out = append(out, deals[i])
		}
	}
	return out
}

func matches(d *model.Deal, spec model.FilterSpec) bool {
	if len(spec.Provinces) > 0 && !containsString(spec.Provinces, d.Province) {
		return false
	}
	if len(spec.Retailers) > 0 && !containsString(spec.Retailers, d.Retailer) {
		return false
	}
	if spec.BrandSubstring != "" &&
		!strings.Contains(strings.ToLower(d.Brand), spec.BrandSubstring) {
		return false
	}
	if spec.SaveThreshold != model.SaveAll && d.SaveNumeric < spec.SaveThreshold {
		return false
	}
	if !spec.PointsBucket.Contains(d.LoyaltyPoints) {
		return false
	}
	return true
}

// Results computes the active result set for a spec. Magic-hour mode replaces
// the predicate filtering entirely: the two modes are mutually exclusive
// outputs, and the predicate state resumes when the mode is toggled off.
func Results(store *dataset.Store, spec model.FilterSpec, today time.Time, cfg magichour.Config) []model.Deal {
	if spec.MagicHour {
		return magichour.Find(store.All(), today, cfg)
	}
	return Apply(store.All(), spec)
}

// ActiveToday reports whether a deal's validity interval includes today.
// Comparison is lexicographic over the canonical YYYY-MM-DD form, so deals
// whose dates failed to normalize are never active. When requireFlag is set,
// an explicit has_Expired pass-through field must also not read "TRUE";
// an absent flag keeps the deal eligible either way.
func ActiveToday(d *model.Deal, today time.Time, requireFlag bool) bool {
	if !d.HasInterval() {
		return false
	}

	day := today.Format("2006-01-02")
	if d.ValidFrom > day || d.ValidTo < day {
		return false
	}

	if requireFlag {
		if flag, ok := d.Extra["has_Expired"].(string); ok && !strings.EqualFold(flag, "FALSE") {
			return false
		}
	}

	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
