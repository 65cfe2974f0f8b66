package filter

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/dealstack/dealstack/internal/model"
)

// maxSuggestDistance bounds how far a brand may be from the query before a
// suggestion stops being useful.
const maxSuggestDistance = 3

// SuggestBrand returns the closest known brand to a query that matched
// nothing, or "" when no brand is close enough. Ties resolve alphabetically
// so suggestions are deterministic.
func SuggestBrand(deals []model.Deal, query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ""
	}

	seen := make(map[string]struct{})
	var brands []string
	for i := range deals {
		brand := deals[i].Brand
		if brand == "" {
			continue
		}
		if _, ok := seen[brand]; ok {
			continue
		}
		seen[brand] = struct{}{}
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, brand := range brands {
		dist := levenshtein.ComputeDistance(query, strings.ToLower(brand))
		if dist < bestDist {
			best, bestDist = brand, dist
		}
	}

	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}
