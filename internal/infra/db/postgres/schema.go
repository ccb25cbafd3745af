package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36) PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','agent','admin')),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                  VARCHAR(36) PRIMARY KEY,
		user_id             VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL,
		price               DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		bedrooms            INTEGER NOT NULL,
		bathrooms           DOUBLE PRECISION NOT NULL,
		square_feet         INTEGER NOT NULL,
		property_type       TEXT NOT NULL,
		status              TEXT NOT NULL,
		address             TEXT NOT NULL,
		city                TEXT NOT NULL,
		state               TEXT NOT NULL,
		zip_code            TEXT NOT NULL,
		latitude            DOUBLE PRECISION,
		longitude           DOUBLE PRECISION,
		featured            BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status TEXT NOT NULL DEFAULT 'pending',
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_created ON properties (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties (user_id)`,
	`CREATE TABLE IF NOT EXISTS property_images (
		id          VARCHAR(36) PRIMARY KEY,
		property_id VARCHAR(36) NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		image_url   TEXT NOT NULL,
		is_primary  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_images_property ON property_images (property_id)`,
	`CREATE TABLE IF NOT EXISTS saved_properties (
		user_id     VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id VARCHAR(36) NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id          VARCHAR(36) PRIMARY KEY,
		property_id VARCHAR(36) NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		user_id     VARCHAR(36) REFERENCES users(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'new',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS investment_analyses (
		id                VARCHAR(36) PRIMARY KEY,
		user_id           VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		purchase_price    DOUBLE PRECISION NOT NULL,
		down_payment      DOUBLE PRECISION NOT NULL,
		interest_rate     DOUBLE PRECISION NOT NULL,
		loan_term         INTEGER NOT NULL,
		rent              DOUBLE PRECISION NOT NULL,
		tax               DOUBLE PRECISION NOT NULL,
		insurance         DOUBLE PRECISION NOT NULL,
		appreciation_rate DOUBLE PRECISION NOT NULL,
		roi               DOUBLE PRECISION NOT NULL,
		cash_flow         DOUBLE PRECISION NOT NULL,
		rental_yield      DOUBLE PRECISION NOT NULL,
		break_even_point  DOUBLE PRECISION NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_user ON investment_analyses (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id         VARCHAR(36) PRIMARY KEY,
		user_id    VARCHAR(36),
		action     TEXT NOT NULL,
		details    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_logs (created_at)`,
}

// Migrate creates missing tables and indexes. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
