package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/common"
)

const sampleJSON = `[
	{"Retailer": "Shoppers Drug Mart", "Brand": "BrandX", "Name": "Widget", "PC Pts": "15,000"},
	{"Retailer": "Loblaws", "Brand": "BrandY", "Name": "Gadget", "Save %": "Save 30%"}
]`

func TestSource_FetchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o600))

	raws, err := NewSource(path).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "Shoppers Drug Mart", raws[0]["Retailer"])
	assert.Equal(t, "Save 30%", raws[1]["Save %"])
}

func TestSource_FetchFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	raws, err := NewSource(srv.URL).Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestSource_FetchMissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent.json")).Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrLoadFailed))
}

func TestSource_FetchBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o600))

	_, err := NewSource(path).Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecodeFailed))
	// Decode failures must stay distinct from fetch failures.
	assert.False(t, errors.Is(err, common.ErrLoadFailed))
}

func TestSource_FetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL).Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrLoadFailed))
}
