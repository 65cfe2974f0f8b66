package filter

import (
	"time"

	"github.com/dealstack/dealstack/internal/model"
)

// Presets are one-shot filter compositions exposed as single UI actions.
// Each returns a fresh result set and leaves no lingering spec state.

// HighPoints returns the spec selecting only deals in the top points bucket.
func HighPoints() model.FilterSpec {
	spec := model.NewFilterSpec()
	spec.SetPointsBucket(model.PointsHigh)
	return spec
}

// ActiveNow projects the deals whose validity interval includes today.
// requireFlag additionally honors an explicit has_Expired source flag.
func ActiveNow(deals []model.Deal, today time.Time, requireFlag bool) []model.Deal {
	out := make([]model.Deal, 0, len(deals))
	for i := range deals {
		if ActiveToday(&deals[i], today, requireFlag) {
			out = append(out, deals[i])
		}
	}
	return out
}

// ProvinceElevated composes the "active in province P with elevated points"
// preset: province P, the 1000-9999 points bucket, then active today.
func ProvinceElevated(deals []model.Deal, province string, today time.Time) []model.Deal {
	spec := model.NewFilterSpec()
	spec.SetProvinces(province)
	spec.SetPointsBucket(model.PointsMid)
	return ActiveNow(Apply(deals, spec), today, false)
}
