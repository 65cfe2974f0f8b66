package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/model"
)

func TestSpecFromFlags(t *testing.T) {
	cmd := filterCmd()
	require.NoError(t, cmd.Flags().Set("province", "ON"))
	require.NoError(t, cmd.Flags().Set("province", "BC"))
	require.NoError(t, cmd.Flags().Set("retailer", "Rexall"))
	require.NoError(t, cmd.Flags().Set("brand", "  Nivea "))
	require.NoError(t, cmd.Flags().Set("save", "25"))
	require.NoError(t, cmd.Flags().Set("points", "10000+"))

	spec, err := specFromFlags(cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"ON", "BC"}, spec.Provinces)
	assert.Equal(t, []string{"Rexall"}, spec.Retailers)
	assert.Equal(t, "nivea", spec.BrandSubstring)
	assert.Equal(t, 25, spec.SaveThreshold)
	assert.Equal(t, model.PointsHigh, spec.PointsBucket)
	assert.False(t, spec.MagicHour)
}

func TestSpecFromFlagsDefaults(t *testing.T) {
	spec, err := specFromFlags(filterCmd())
	require.NoError(t, err)

	assert.Nil(t, spec.Provinces)
	assert.Nil(t, spec.Retailers)
	assert.Equal(t, model.SaveAll, spec.SaveThreshold)
	assert.Equal(t, model.PointsAll, spec.PointsBucket)
}

func TestSpecFromFlagsRejectsUnknownBucket(t *testing.T) {
	cmd := filterCmd()
	require.NoError(t, cmd.Flags().Set("points", "lots"))

	_, err := specFromFlags(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid points bucket")
}

func TestResolveToday(t *testing.T) {
	cmd := filterCmd()
	require.NoError(t, cmd.Flags().Set("today", "2026-02-14"))

	day, err := resolveToday(cmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local), day)
}

func TestResolveTodayRejectsGarbage(t *testing.T) {
	cmd := filterCmd()
	require.NoError(t, cmd.Flags().Set("today", "Valid until further notice"))

	_, err := resolveToday(cmd)
	assert.Error(t, err)
}

func TestResolveTodayDefaultsToNow(t *testing.T) {
	day, err := resolveToday(filterCmd())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), day, time.Minute)
}
