package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/model"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no auth configured",
			mutate:  func(_ *Config) {},
			wantErr: "no authentication method",
		},
		{
			name: "oauth complete",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
		{
			name: "service account",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
			},
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
				c.ServiceAccountPath = "/tmp/key.json"
			},
			wantErr: "multiple authentication methods",
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.BatchSize = 0
			},
			wantErr: "batch size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnvDefaultsSpreadsheetName(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/tmp/key.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "Deal Export", cfg.SpreadsheetName)
}

func TestLoadFromEnvRequiresAuth(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestPrepareExportData(t *testing.T) {
	price := 9.99
	deals := []model.Deal{
		{
			Retailer:      "Shoppers Drug Mart",
			Province:      "ON",
			Brand:         "Nivea",
			Name:          "Body Lotion",
			Price:         &price,
			SaveText:      "Save 25%",
			LoyaltyPoints: 15000,
			ValidFrom:     "2026-01-01",
			ValidTo:       "2026-01-31",
			ExpiryLabel:   "In 6 days",
			DetailURL:     "https://example.com/deal/1",
		},
		{
			Retailer: "Rexall",
			Province: "BC",
			Brand:    "Tylenol",
			Name:     "Extra Strength",
		},
	}

	summary := ExportSummary{
		GeneratedAt: time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC),
		Source:      "data/data.json",
		Filter:      "magic hour",
	}

	values := prepareExportData(deals, summary)

	// Title block, blank row, column header, then one row per deal.
	require.Len(t, values, 8)
	assert.Equal(t, []any{"Deal Export", "Jan 25, 2026"}, values[0])
	assert.Equal(t, []any{"Filter", "magic hour"}, values[2])
	assert.Equal(t, "Retailer", values[5][0])

	first := values[6]
	assert.Equal(t, "Shoppers Drug Mart", first[0])
	assert.Equal(t, 9.99, first[4])
	assert.Equal(t, 15000, first[6])

	// A deal without a price exports a blank cell, not a zero.
	second := values[7]
	assert.Equal(t, "", second[4])
}

func TestPrepareExportDataEmptyFilterLabel(t *testing.T) {
	values := prepareExportData(nil, ExportSummary{GeneratedAt: time.Now()})
	assert.Equal(t, []any{"Filter", "all deals"}, values[2])
}
