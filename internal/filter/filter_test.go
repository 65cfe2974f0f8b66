package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/magichour"
	"github.com/dealstack/dealstack/internal/model"
)

var today = time.Date(2026, time.January, 25, 12, 0, 0, 0, time.Local)

func sampleDeals() []model.Deal {
	return []model.Deal{
		{
			Retailer: "Shoppers Drug Mart", Province: "BC", Brand: "BrandX", Name: "Widget",
			LoyaltyPoints: 15000, ValidFrom: "2026-01-01", ValidTo: "2026-01-31",
		},
		{
			Retailer: "Shoppers Drug Mart", Province: "ON", Brand: "BrandX", Name: "Widget",
			SaveNumeric: 25, SaveText: "Save 25%", ValidFrom: "2026-01-20", ValidTo: "2026-02-10",
		},
		{
			Retailer: "Loblaws", Province: "BC", Brand: "BrandY", Name: "Gadget",
			LoyaltyPoints: 500, ValidFrom: "2026-01-10", ValidTo: "2026-01-20",
		},
		{
			Retailer: "Rexall", Province: "AB", Brand: "Nivea", Name: "Lotion",
			SaveNumeric: 40, SaveText: "Save 40%", ValidFrom: "2025-12-01", ValidTo: "2025-12-31",
		},
	}
}

func TestApply_Unconstrained(t *testing.T) {
	deals := sampleDeals()
	got := Apply(deals, model.NewFilterSpec())
	assert.Equal(t, deals, got, "an empty spec matches everything")
}

func TestApply_Conjunction(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetProvinces("BC")
	spec.SetPointsBucket(model.PointsHigh)

	got := Apply(deals, spec)

	require.Len(t, got, 1)
	assert.Equal(t, "Shoppers Drug Mart", got[0].Retailer)
}

func TestApply_DisjunctionWithinDimension(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetProvinces("BC", "AB")

	got := Apply(deals, spec)

	require.Len(t, got, 3)
	for _, d := range got {
		assert.Contains(t, []string{"BC", "AB"}, d.Province)
	}
}

func TestApply_BrandSubstring(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetBrandSubstring("RANDx")

	got := Apply(deals, spec)

	require.Len(t, got, 2)
	assert.Equal(t, "BrandX", got[0].Brand)
}

func TestApply_SaveThreshold(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetSaveThreshold(30)

	got := Apply(deals, spec)

	require.Len(t, got, 1)
	assert.Equal(t, 40, got[0].SaveNumeric)
}

func TestApply_Idempotent(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetProvinces("BC", "ON")
	spec.SetSaveThreshold(10)

	once := Apply(deals, spec)
	twice := Apply(once, spec)

	assert.Equal(t, once, twice, "filtering is a pure projection")
}

func TestApply_BucketMonotonicity(t *testing.T) {
	deals := sampleDeals()

	narrow := model.NewFilterSpec()
	narrow.SetPointsBucket(model.PointsMid)
	wide := model.NewFilterSpec() // PointsAll contains every bucket

	narrowSet := Apply(deals, narrow)
	wideSet := Apply(deals, wide)

	for _, d := range narrowSet {
		assert.Contains(t, wideSet, d, "a narrower bucket must select a subset")
	}
}

func TestApply_OrderPreserving(t *testing.T) {
	deals := sampleDeals()

	spec := model.NewFilterSpec()
	spec.SetProvinces("BC", "ON", "AB")

	got := Apply(deals, spec)

	require.Len(t, got, 4)
	assert.Equal(t, deals, got)
}

func TestActiveToday(t *testing.T) {
	tests := []struct {
		name        string
		deal        model.Deal
		requireFlag bool
		want        bool
	}{
		{
			name: "inside interval",
			deal: model.Deal{ValidFrom: "2026-01-01", ValidTo: "2026-01-31"},
			want: true,
		},
		{
			name: "starts today",
			deal: model.Deal{ValidFrom: "2026-01-25", ValidTo: "2026-01-31"},
			want: true,
		},
		{
			name: "ends today",
			deal: model.Deal{ValidFrom: "2026-01-01", ValidTo: "2026-01-25"},
			want: true,
		},
		{
			name: "already ended",
			deal: model.Deal{ValidFrom: "2026-01-01", ValidTo: "2026-01-24"},
			want: false,
		},
		{
			name: "not started",
			deal: model.Deal{ValidFrom: "2026-01-26", ValidTo: "2026-02-28"},
			want: false,
		},
		{
			name: "malformed dates never active",
			deal: model.Deal{RawValidFrom: "soonish", ValidTo: "2026-01-31"},
			want: false,
		},
		{
			name: "explicit not-expired flag honored",
			deal: model.Deal{
				ValidFrom: "2026-01-01", ValidTo: "2026-01-31",
				Extra: map[string]any{"has_Expired": "FALSE"},
			},
			requireFlag: true,
			want:        true,
		},
		{
			name: "explicit expired flag rejects",
			deal: model.Deal{
				ValidFrom: "2026-01-01", ValidTo: "2026-01-31",
				Extra: map[string]any{"has_Expired": "TRUE"},
			},
			requireFlag: true,
			want:        false,
		},
		{
			name:        "absent flag keeps the deal eligible",
			deal:        model.Deal{ValidFrom: "2026-01-01", ValidTo: "2026-01-31"},
			requireFlag: true,
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveToday(&tt.deal, today, tt.requireFlag))
		})
	}
}

func TestResults_MagicHourReplacesPredicates(t *testing.T) {
	store := dataset.NewStore(sampleDeals())

	spec := model.NewFilterSpec()
	spec.SetProvinces("AB") // would match only the Rexall deal
	spec.MagicHour = true

	got := Results(store, spec, today, magichour.DefaultConfig())

	// Magic hour ignores the province predicate entirely and returns the
	// overlapping BrandX pair instead.
	require.Len(t, got, 2)
	assert.Equal(t, "BrandX", got[0].Brand)
	assert.Equal(t, "BrandX", got[1].Brand)

	// Toggling the mode off resumes predicate filtering.
	spec.MagicHour = false
	got = Results(store, spec, today, magichour.DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Rexall", got[0].Retailer)
}

func TestPresets(t *testing.T) {
	deals := sampleDeals()

	high := Apply(deals, HighPoints())
	require.Len(t, high, 1)
	assert.Equal(t, 15000, high[0].LoyaltyPoints)

	active := ActiveNow(deals, today, false)
	require.Len(t, active, 2)
	assert.Equal(t, "BC", active[0].Province)
	assert.Equal(t, "ON", active[1].Province)

	// BC deal with mid points, active today: the Loblaws deal has mid-range
	// points but ended Jan 20.
	elevated := ProvinceElevated(deals, "BC", today)
	assert.Empty(t, elevated)

	shifted := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.Local)
	elevated = ProvinceElevated(deals, "BC", shifted)
	assert.Empty(t, elevated, "500 points sits below the elevated bucket")
}

func TestSuggestBrand(t *testing.T) {
	deals := sampleDeals()

	assert.Equal(t, "Nivea", SuggestBrand(deals, "nivia"))
	assert.Equal(t, "BrandX", SuggestBrand(deals, "brandz"))
	assert.Empty(t, SuggestBrand(deals, "completelyunrelated"))
	assert.Empty(t, SuggestBrand(deals, "  "))
}
