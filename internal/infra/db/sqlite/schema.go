package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Column types stay DATETIME so the driver scans them back into time.Time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		is_active     BOOLEAN NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL,
		price               REAL NOT NULL CHECK (price >= 0),
		bedrooms            INTEGER NOT NULL,
		bathrooms           REAL NOT NULL,
		square_feet         INTEGER NOT NULL,
		property_type       TEXT NOT NULL,
		status              TEXT NOT NULL,
		address             TEXT NOT NULL,
		city                TEXT NOT NULL,
		state               TEXT NOT NULL,
		zip_code            TEXT NOT NULL,
		latitude            REAL,
		longitude           REAL,
		featured            BOOLEAN NOT NULL DEFAULT 0,
		verification_status TEXT NOT NULL DEFAULT 'pending',
		created_at          DATETIME NOT NULL,
		updated_at          DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_created ON properties(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(user_id)`,
	`CREATE TABLE IF NOT EXISTS property_images (
		id          TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		image_url   TEXT NOT NULL,
		is_primary  BOOLEAN NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_images_property ON property_images(property_id)`,
	`CREATE TABLE IF NOT EXISTS saved_properties (
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  DATETIME NOT NULL,
		PRIMARY KEY (user_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id          TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		user_id     TEXT REFERENCES users(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'new',
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS investment_analyses (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		purchase_price    REAL NOT NULL,
		down_payment      REAL NOT NULL,
		interest_rate     REAL NOT NULL,
		loan_term         INTEGER NOT NULL,
		rent              REAL NOT NULL,
		tax               REAL NOT NULL,
		insurance         REAL NOT NULL,
		appreciation_rate REAL NOT NULL,
		roi               REAL NOT NULL,
		cash_flow         REAL NOT NULL,
		rental_yield      REAL NOT NULL,
		break_even_point  REAL NOT NULL,
		created_at        DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_user ON investment_analyses(user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id         TEXT PRIMARY KEY,
		user_id    TEXT,
		action     TEXT NOT NULL,
		details    TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_logs(created_at)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
