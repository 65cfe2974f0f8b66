package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dealstack/dealstack/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS deals (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					position INTEGER NOT NULL,
					retailer TEXT NOT NULL DEFAULT '',
					province TEXT NOT NULL DEFAULT '',
					brand TEXT NOT NULL DEFAULT '',
					name TEXT NOT NULL DEFAULT '',
					offer TEXT NOT NULL DEFAULT '',
					details TEXT NOT NULL DEFAULT '',
					terms TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					price REAL,
					loyalty_points INTEGER NOT NULL DEFAULT 0,
					save_text TEXT NOT NULL DEFAULT '',
					save_numeric INTEGER NOT NULL DEFAULT 0,
					valid_from TEXT NOT NULL DEFAULT '',
					valid_to TEXT NOT NULL DEFAULT '',
					raw_valid_from TEXT NOT NULL DEFAULT '',
					raw_valid_to TEXT NOT NULL DEFAULT '',
					expiry_label TEXT NOT NULL DEFAULT '',
					detail_url TEXT NOT NULL DEFAULT '',
					extra TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_deals_position ON deals(position)`,
				`CREATE INDEX idx_deals_province ON deals(province)`,
				`CREATE INDEX idx_deals_retailer ON deals(retailer)`,

				`CREATE TABLE IF NOT EXISTS loads (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					record_count INTEGER NOT NULL,
					loaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index brand lookups for substring suggestions",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_deals_brand ON deals(brand)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d",
			common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
