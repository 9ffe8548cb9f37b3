package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one schema step, tracked in PRAGMA user_version.
type migration struct {
	version     int
	description string
	up          func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{
		version:     1,
		description: "create scraped_data",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS scraped_data (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT NOT NULL,
				keywords TEXT,
				sentiment TEXT,
				content_snippet TEXT
			)`)
			return err
		},
	},
	{
		version:     2,
		description: "index scraped_data by url",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_scraped_data_url ON scraped_data(url)")
			return err
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].version
}

// schemaVersion reads PRAGMA user_version.
func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// isLegacyDB reports whether scraped_data exists without a schema version,
// which is how databases from earlier releases look. Their sentiment column
// is declared REAL but holds the label text, which reads back unchanged.
func isLegacyDB(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='scraped_data'",
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

// migrate brings the schema up to date. It never drops or rewrites rows.
func migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	if current == 0 {
		legacy, err := isLegacyDB(ctx, db)
		if err != nil {
			return err
		}
		if legacy {
			// The legacy table already satisfies migration 1.
			if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
				return fmt.Errorf("stamping legacy version: %w", err)
			}
			current = 1
		}
	}

	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.up(ctx, tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}

		// modernc/sqlite needs user_version set outside the transaction.
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("setting version %d: %w", m.version, err)
		}
	}

	return nil
}
