package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/model"
)

func renderDeals() []model.Deal {
	price := 12.99
	return []model.Deal{
		{
			Retailer: "Shoppers Drug Mart", Province: "BC", Brand: "BrandX", Name: "Widget",
			Price: &price, SaveText: "Save 30%", SaveNumeric: 30,
			LoyaltyPoints: 15000, ValidFrom: "2026-01-01", ValidTo: "2026-01-31",
			ExpiryLabel: "In 4 days",
			Extra:       map[string]any{"Offer": "Bonus points event"},
		},
		{
			Retailer: "Loblaws", Province: "ON", Brand: "BrandY", Name: "Gadget",
			ExpiryLabel: "N/A",
		},
	}
}

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, ""},
		{500, "500"},
		{1500, "1,500"},
		{15000, "15,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPoints(tt.in), "input %d", tt.in)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, renderDeals(), DefaultColumns()))

	out := buf.String()
	assert.Contains(t, out, "Retailer")
	assert.Contains(t, out, "Shoppers Drug Mart")
	assert.Contains(t, out, "15,000")
	assert.Contains(t, out, "$12.99")
	assert.Contains(t, out, "2 deals")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, renderDeals()))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)

	assert.Equal(t, "BrandX", out[0]["Brand"])
	assert.EqualValues(t, 30, out[0]["Save_Numeric"])
	assert.EqualValues(t, 15000, out[0]["PC Pts"])
	// Pass-through fields survive export.
	assert.Equal(t, "Bonus points event", out[0]["Offer"])
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, renderDeals(), DefaultColumns()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Retailer,Prov,Brand,Name,Price,Save,Points,Expiry", lines[0])
	assert.Contains(t, lines[1], "Shoppers Drug Mart")
	assert.Contains(t, lines[1], "\"15,000\"")
}
