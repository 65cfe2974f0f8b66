// Package model defines the core domain types shared across the application.
package model

import "strings"

// Deal represents a single normalized promotional record for a retail product.
// Instances are constructed once by the normalizer and never mutated afterward;
// filtering and overlap detection only produce views into the original slice.
type Deal struct {
	Retailer string
	Province string
	Brand    string
	Name     string

	// Optional free-text fields, trimmed, empty when the source omits them.
	OfferText       string
	DetailsText     string
	TermsText       string
	DescriptionText string

	// Price is nil when the source value is absent or unparseable.
	Price *float64

	// LoyaltyPoints is the parsed points value with thousands separators
	// stripped. Absent or unparseable values resolve to 0.
	LoyaltyPoints int

	// SaveText is the raw save label as provided (e.g. "Save 30%").
	// SaveNumeric is the first integer percentage extracted from it, 0 if none.
	SaveText    string
	SaveNumeric int

	// ValidFrom and ValidTo hold canonical YYYY-MM-DD dates, empty when the
	// source date is absent or failed to parse. RawValidFrom and RawValidTo
	// carry the original source text so malformed values stay diagnosable.
	ValidFrom    string
	ValidTo      string
	RawValidFrom string
	RawValidTo   string

	// ExpiryLabel is the derived display label ("Expired", "Today",
	// "In N days", "N/A", or the original malformed date string).
	ExpiryLabel string

	DetailURL string

	// Extra preserves every raw source field unmodified so consumers can
	// still reach deployment-specific columns.
	Extra map[string]any
}

// ProductKey returns the identity key used to group deals that refer to the
// same underlying product across retailers and offer types. The empty string
// signals a deal that cannot participate in grouping.
func (d *Deal) ProductKey() string {
	key := strings.ToLower(strings.TrimSpace(d.Brand)) + "|" + strings.ToLower(strings.TrimSpace(d.Name))
	if key == "|" {
		return ""
	}
	return key
}

// HasInterval reports whether both validity dates parsed to canonical form,
// making the deal eligible for interval arithmetic.
func (d *Deal) HasInterval() bool {
	return d.ValidFrom != "" && d.ValidTo != ""
}
