package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// canonicalLayout is the comparable date form every recognized input is
// reduced to. Lexicographic comparison on this form matches calendar order.
const canonicalLayout = "2006-01-02"

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	cjkDateRe    = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	genericForms = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
		"02/01/2006",
	}
)

// ParseDate recognizes a source date value and reduces it to canonical
// YYYY-MM-DD form. Recognized forms, in priority order: strict YYYY-MM-DD,
// the localized YYYY年M月D日 form, then a set of generic layouts. An absent
// value and an unrecognized value are both errors; the error for an
// unrecognized value carries the original text.
func ParseDate(v any) (string, error) {
	s := strings.TrimSpace(rawString(v))
	if s == "" || s == "undefined" || s == "null" {
		return "", errDateAbsent
	}

	if isoDateRe.MatchString(s) {
		// Reject syntactically valid but impossible dates like 2026-02-30.
		if _, err := time.ParseInLocation(canonicalLayout, s, time.Local); err != nil {
			return "", &InvalidDateError{Value: s}
		}
		return s, nil
	}

	if m := cjkDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalizes overflow, so verify the components round-trip.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return "", &InvalidDateError{Value: s}
		}
		return t.Format(canonicalLayout), nil
	}

	for _, layout := range genericForms {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(canonicalLayout), nil
		}
	}

	return "", &InvalidDateError{Value: s}
}

// InvalidDateError reports a date-like value that matched no recognized form.
// The original text is preserved for diagnosability.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("unrecognized date %q", e.Value)
}

// errDateAbsent distinguishes a missing date from a malformed one.
var errDateAbsent = fmt.Errorf("date absent")

// expiryLabel derives the display label for a deal's expiry. A malformed
// source value surfaces as-is so the bad data stays visible; an absent one
// becomes "N/A".
func expiryLabel(validTo, rawValidTo string, today time.Time) string {
	if validTo == "" {
		if rawValidTo != "" {
			return rawValidTo
		}
		return "N/A"
	}

	expiry, err := time.ParseInLocation(canonicalLayout, validTo, time.Local)
	if err != nil {
		return validTo
	}

	days := daysUntil(today, expiry)
	switch {
	case days < 0:
		return "Expired"
	case days == 0:
		return "Today"
	case days == 1:
		return "In 1 day"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// daysUntil returns the whole-day difference between today and target, both
// truncated to day granularity. Diffing UTC midnights keeps DST transitions
// from producing fractional days.
func daysUntil(today, target time.Time) int {
	t0 := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	t1 := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(t1.Sub(t0).Hours() / 24))
}
