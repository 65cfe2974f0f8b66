// Package magichour finds "magic hour" windows: moments where two or more
// independently significant promotions on the same product are concurrently
// valid, so a shopper can stack them for compounded savings.
package magichour

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/model"
)

// Pairing selects which significant-deal pairs are tested for overlap.
type Pairing string

const (
	// PairAny tests every unordered pair within a product group.
	PairAny Pairing = "any"
	// PairCrossType only tests pairs where one deal is significant on
	// loyalty points and the other on save percentage, trading recall for
	// precision by requiring genuinely different offer mechanisms.
	PairCrossType Pairing = "cross"
)

// Config holds the overlap detector's knobs. The historical revisions of this
// feature disagreed on thresholds and pairing strategy, so none of them are
// hard-coded.
type Config struct {
	// PointsThreshold and SaveThreshold define offer significance: a deal
	// qualifies when either value clears its threshold.
	PointsThreshold int
	SaveThreshold   int
	// RetailerScope optionally restricts detection to retailers whose name
	// contains any of these substrings, case-insensitive. Empty means all.
	RetailerScope []string
	Pairing       Pairing
}

// DefaultConfig returns the detector defaults: 1000 points, 10% save,
// any-pair, no retailer scope.
func DefaultConfig() Config {
	return Config{
		PointsThreshold: 1000,
		SaveThreshold:   10,
		Pairing:         PairAny,
	}
}

// Find returns every deal participating in at least one qualifying overlap,
// deduplicated, in input order. A pair qualifies when both deals are
// significant, their validity intervals intersect, and today falls inside the
// intersection. Deals with malformed or missing dates are never eligible;
// bad data degrades to exclusion, not failure.
func Find(deals []model.Deal, today time.Time, cfg Config) []model.Deal {
	day := startOfDay(today)

	scoped := make([]int, 0, len(deals))
	for i := range deals {
		if inScope(&deals[i], cfg.RetailerScope) {
			scoped = append(scoped, i)
		}
	}

	groups := groupByProduct(deals, scoped)

	matched := make(map[int]struct{})
	for _, group := range groups {
		significant := make([]int, 0, len(group))
		for _, idx := range group {
			d := &deals[idx]
			if !d.HasInterval() {
				continue
			}
			if d.LoyaltyPoints >= cfg.PointsThreshold || d.SaveNumeric >= cfg.SaveThreshold {
				significant = append(significant, idx)
			}
		}
		if len(significant) < 2 {
			continue
		}

		for i := 0; i < len(significant); i++ {
			for j := i + 1; j < len(significant); j++ {
				a, b := &deals[significant[i]], &deals[significant[j]]
				if cfg.Pairing == PairCrossType && !crossType(a, b, cfg) {
					continue
				}
				if overlapsToday(a, b, day) {
					matched[significant[i]] = struct{}{}
					matched[significant[j]] = struct{}{}
				}
			}
		}
	}

	indices := make([]int, 0, len(matched))
	for idx := range matched {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]model.Deal, 0, len(indices))
	for _, idx := range indices {
		out = append(out, deals[idx])
	}

	slog.Debug("Magic hour scan complete",
		"scoped", len(scoped),
		"groups", len(groups),
		"matched", len(out))

	return out
}

// overlapsToday reports whether the two validity intervals intersect and the
// intersection contains the given day. "From" bounds are taken at start of
// day and "to" bounds at end of day, so an intersection touching at a single
// date still counts when that date is today.
func overlapsToday(a, b *model.Deal, day time.Time) bool {
	aFrom, aTo := interval(a)
	bFrom, bTo := interval(b)

	start := maxTime(aFrom, bFrom)
	end := minTime(aTo, bTo)

	return !start.After(end) && !day.Before(start) && !day.After(end)
}

func interval(d *model.Deal) (time.Time, time.Time) {
	from, _ := time.ParseInLocation("2006-01-02", d.ValidFrom, time.Local)
	to, _ := time.ParseInLocation("2006-01-02", d.ValidTo, time.Local)
	return from, to.Add(24*time.Hour - time.Second)
}

func crossType(a, b *model.Deal, cfg Config) bool {
	aPoints := a.LoyaltyPoints >= cfg.PointsThreshold
	aSave := a.SaveNumeric >= cfg.SaveThreshold
	bPoints := b.LoyaltyPoints >= cfg.PointsThreshold
	bSave := b.SaveNumeric >= cfg.SaveThreshold
	return (aPoints && bSave) || (aSave && bPoints)
}

func inScope(d *model.Deal, scope []string) bool {
	if len(scope) == 0 {
		return true
	}
	retailer := strings.ToLower(d.Retailer)
	for _, substr := range scope {
		if substr == "" {
			continue
		}
		if strings.Contains(retailer, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// groupByProduct groups the scoped indices by product key, dropping deals
// with no identity key.
func groupByProduct(deals []model.Deal, scoped []int) map[string][]int {
	if len(scoped) == len(deals) {
		return dataset.GroupByProductKey(deals)
	}
	groups := make(map[string][]int)
	for _, idx := range scoped {
		key := deals[idx].ProductKey()
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], idx)
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
