package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dealstack/dealstack/internal/model"
)

// ReplaceDeals atomically swaps the cached collection for a fresh load. The
// cache represents exactly one source snapshot, so a new load always replaces
// the previous one wholesale.
func (s *SQLiteStorage) ReplaceDeals(ctx context.Context, source string, deals []model.Deal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDeals(deals); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM deals`); err != nil {
		return fmt.Errorf("failed to clear previous load: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO deals (
			position, retailer, province, brand, name,
			offer, details, terms, description,
			price, loyalty_points, save_text, save_numeric,
			valid_from, valid_to, raw_valid_from, raw_valid_to,
			expiry_label, detail_url, extra
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range deals {
		d := &deals[i]

		extra, marshalErr := json.Marshal(d.Extra)
		if marshalErr != nil {
			// Pass-through fields are plain decoded JSON, so this only
			// fires on a programming error upstream.
			slog.Warn("Failed to marshal pass-through fields", "position", i, "error", marshalErr)
			extra = []byte("{}")
		}

		var price sql.NullFloat64
		if d.Price != nil {
			price = sql.NullFloat64{Float64: *d.Price, Valid: true}
		}

		if _, err = stmt.ExecContext(ctx,
			i, d.Retailer, d.Province, d.Brand, d.Name,
			d.OfferText, d.DetailsText, d.TermsText, d.DescriptionText,
			price, d.LoyaltyPoints, d.SaveText, d.SaveNumeric,
			d.ValidFrom, d.ValidTo, d.RawValidFrom, d.RawValidTo,
			d.ExpiryLabel, d.DetailURL, string(extra),
		); err != nil {
			return fmt.Errorf("failed to insert deal at position %d: %w", i, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO loads (source, record_count) VALUES (?, ?)`,
		source, len(deals),
	); err != nil {
		return fmt.Errorf("failed to record load: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}

	slog.Info("Cached deal collection", "source", source, "count", len(deals))
	return nil
}

// GetDeals returns the cached collection in original input order.
func (s *SQLiteStorage) GetDeals(ctx context.Context) ([]model.Deal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT retailer, province, brand, name,
			offer, details, terms, description,
			price, loyalty_points, save_text, save_numeric,
			valid_from, valid_to, raw_valid_from, raw_valid_to,
			expiry_label, detail_url, extra
		FROM deals
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deals []model.Deal
	for rows.Next() {
		var d model.Deal
		var price sql.NullFloat64
		var extra string

		if err := rows.Scan(
			&d.Retailer, &d.Province, &d.Brand, &d.Name,
			&d.OfferText, &d.DetailsText, &d.TermsText, &d.DescriptionText,
			&price, &d.LoyaltyPoints, &d.SaveText, &d.SaveNumeric,
			&d.ValidFrom, &d.ValidTo, &d.RawValidFrom, &d.RawValidTo,
			&d.ExpiryLabel, &d.DetailURL, &extra,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}

		if price.Valid {
			v := price.Float64
			d.Price = &v
		}
		if err := json.Unmarshal([]byte(extra), &d.Extra); err != nil {
			slog.Warn("Failed to unmarshal pass-through fields", "error", err)
			d.Extra = map[string]any{}
		}

		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}

	return deals, nil
}

// DealCount returns the number of cached deals.
func (s *SQLiteStorage) DealCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deals`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deals: %w", err)
	}
	return count, nil
}

// LastLoad describes the most recent cached load.
type LastLoad struct {
	LoadedAt    time.Time
	Source      string
	RecordCount int
}

// GetLastLoad returns metadata for the most recent load, or nil when the
// cache has never been populated.
func (s *SQLiteStorage) GetLastLoad(ctx context.Context) (*LastLoad, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var load LastLoad
	err := s.db.QueryRowContext(ctx, `
		SELECT source, record_count, loaded_at
		FROM loads
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&load.Source, &load.RecordCount, &load.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last load: %w", err)
	}

	return &load, nil
}
