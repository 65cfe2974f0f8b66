// Package dataset loads the raw deal collection and holds the normalized
// result as the immutable source of truth for filtering and overlap
// detection.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dealstack/dealstack/internal/common"
)

// Source fetches the raw deal collection from a static resource, either a
// local file path or an HTTP(S) URL. The fetch happens once per load; there
// is no other network egress.
type Source struct {
	httpClient *http.Client
	location   string
}

// NewSource creates a source for the given file path or URL.
func NewSource(location string) *Source {
	return &Source{
		location: location,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves and decodes the raw records. Failure is terminal for the
// load: callers must surface the error state instead of rendering partial
// data. Remote fetches are retried with backoff; decode failures are not,
// since a malformed document will not fix itself.
func (s *Source) Fetch(ctx context.Context) ([]map[string]any, error) {
	var body []byte

	if isRemote(s.location) {
		err := common.WithRetry(ctx, func() error {
			var fetchErr error
			body, fetchErr = s.fetchRemote(ctx)
			return fetchErr
		}, common.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
		}
	} else {
		var err error
		body, err = os.ReadFile(s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
		}
	}

	var raws []map[string]any
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecodeFailed, err)
	}

	slog.Info("Fetched deal source",
		"location", s.location,
		"records", len(raws),
		"bytes", len(body))

	return raws, nil
}

func (s *Source) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.location)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
