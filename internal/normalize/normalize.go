// Package normalize converts raw deal records into canonical model.Deal
// values. Source schemas are not fixed: field presence, spelling, and casing
// vary across deployments, so every accessor here is defensive and resolves
// anomalies to documented sentinels instead of failing the whole load.
package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dealstack/dealstack/internal/model"
)

// validToKeys lists the known spellings of the "valid to" column, probed in
// priority order. The first present non-empty value wins.
var validToKeys = []string{
	"Valid To", "Valid_To", "ValidTo", "valid_to", "valid to",
	"Validité jusqu'au", "End Date", "end_date", "Expiry", "expiry",
}

// validFromKeys is the equivalent list for the "valid from" column.
var validFromKeys = []string{
	"Valid From", "Valid_From", "ValidFrom", "valid_from",
	"Start Date", "start_date",
}

var (
	savePercentRe = regexp.MustCompile(`(\d+)%`)
	leadingIntRe  = regexp.MustCompile(`^-?\d+`)
)

// Record normalizes a single raw record into a Deal. It is pure apart from
// reading nothing but its arguments; today is used only for expiry labeling
// and should be the caller's local calendar day.
func Record(raw map[string]any, index int, today time.Time) model.Deal {
	rawFrom := probeKeys(raw, validFromKeys)
	rawTo := probeKeys(raw, validToKeys)

	from, fromErr := ParseDate(rawFrom)
	to, toErr := ParseDate(rawTo)

	deal := model.Deal{
		Retailer:        stringField(raw, "Retailer"),
		Province:        stringField(raw, "Province"),
		Brand:           stringField(raw, "Brand"),
		Name:            stringField(raw, "Name"),
		OfferText:       stringField(raw, "Offer"),
		DetailsText:     stringField(raw, "Details"),
		TermsText:       stringField(raw, "Terms"),
		DescriptionText: stringField(raw, "Description"),
		Price:           parsePrice(raw["Price"]),
		LoyaltyPoints:   ParsePoints(rawString(raw["PC Pts"])),
		SaveText:        stringField(raw, "Save %"),
		DetailURL:       firstStringField(raw, "Item Web URL", "Item_Web_URL"),
		Extra:           raw,
	}
	deal.SaveNumeric = ParseSavePercent(deal.SaveText)

	if fromErr == nil {
		deal.ValidFrom = from
	} else {
		deal.RawValidFrom = strings.TrimSpace(rawString(rawFrom))
	}
	if toErr == nil {
		deal.ValidTo = to
	} else {
		deal.RawValidTo = strings.TrimSpace(rawString(rawTo))
	}
	deal.ExpiryLabel = expiryLabel(deal.ValidTo, deal.RawValidTo, today)

	if index == 0 {
		slog.Debug("Normalized first record",
			"valid_from", deal.ValidFrom,
			"valid_to", deal.ValidTo,
			"expiry", deal.ExpiryLabel,
			"columns", len(raw))
	}

	return deal
}

// Records normalizes a full raw collection, preserving input order.
func Records(raws []map[string]any, today time.Time) []model.Deal {
	deals := make([]model.Deal, len(raws))
	for i, raw := range raws {
		deals[i] = Record(raw, i, today)
	}
	return deals
}

// ParsePoints parses a loyalty-points value, stripping thousands separators
// and taking the leading integer run. Anything unparseable resolves to 0.
func ParsePoints(s string) int {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	run := leadingIntRe.FindString(clean)
	if run == "" {
		return 0
	}
	n, err := strconv.Atoi(run)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseSavePercent extracts the first integer percentage from a save label,
// e.g. "Save 30%" -> 30. Labels with no percentage resolve to 0.
func ParseSavePercent(s string) int {
	match := savePercentRe.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

func parsePrice(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// probeKeys returns the first present non-empty value among the candidates.
func probeKeys(raw map[string]any, keys []string) any {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func stringField(raw map[string]any, key string) string {
	return strings.TrimSpace(rawString(raw[key]))
}

func firstStringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(raw, key); s != "" {
			return s
		}
	}
	return ""
}

// rawString coerces any JSON scalar into its string form; nil becomes "".
func rawString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
