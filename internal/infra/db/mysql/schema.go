package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// property_type and status use a binary collation so equality filters are case-sensitive.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36) PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16) NOT NULL DEFAULT 'user',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                  VARCHAR(36) PRIMARY KEY,
		user_id             VARCHAR(36) NOT NULL,
		title               VARCHAR(255) NOT NULL,
		description         TEXT NOT NULL,
		price               DOUBLE NOT NULL,
		bedrooms            INT NOT NULL,
		bathrooms           DOUBLE NOT NULL,
		square_feet         INT NOT NULL,
		property_type       VARCHAR(32) COLLATE utf8mb4_bin NOT NULL,
		status              VARCHAR(32) COLLATE utf8mb4_bin NOT NULL,
		address             VARCHAR(255) NOT NULL,
		city                VARCHAR(128) NOT NULL,
		state               VARCHAR(64) NOT NULL,
		zip_code            VARCHAR(16) NOT NULL,
		latitude            DOUBLE NULL,
		longitude           DOUBLE NULL,
		featured            BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at          DATETIME(6) NOT NULL,
		updated_at          DATETIME(6) NOT NULL,
		INDEX idx_properties_created (created_at),
		INDEX idx_properties_owner (user_id),
		CONSTRAINT fk_properties_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS property_images (
		id          VARCHAR(36) PRIMARY KEY,
		property_id VARCHAR(36) NOT NULL,
		image_url   VARCHAR(1024) NOT NULL,
		is_primary  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  DATETIME(6) NOT NULL,
		INDEX idx_images_property (property_id),
		CONSTRAINT fk_images_property FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS saved_properties (
		user_id     VARCHAR(36) NOT NULL,
		property_id VARCHAR(36) NOT NULL,
		created_at  DATETIME(6) NOT NULL,
		PRIMARY KEY (user_id, property_id),
		CONSTRAINT fk_saved_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_saved_property FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id          VARCHAR(36) PRIMARY KEY,
		property_id VARCHAR(36) NOT NULL,
		user_id     VARCHAR(36) NULL,
		name        VARCHAR(255) NOT NULL,
		email       VARCHAR(255) NOT NULL,
		phone       VARCHAR(64) NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'new',
		created_at  DATETIME(6) NOT NULL,
		CONSTRAINT fk_enquiries_property FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE,
		CONSTRAINT fk_enquiries_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS investment_analyses (
		id                VARCHAR(36) PRIMARY KEY,
		user_id           VARCHAR(36) NOT NULL,
		purchase_price    DOUBLE NOT NULL,
		down_payment      DOUBLE NOT NULL,
		interest_rate     DOUBLE NOT NULL,
		loan_term         INT NOT NULL,
		rent              DOUBLE NOT NULL,
		tax               DOUBLE NOT NULL,
		insurance         DOUBLE NOT NULL,
		appreciation_rate DOUBLE NOT NULL,
		roi               DOUBLE NOT NULL,
		cash_flow         DOUBLE NOT NULL,
		rental_yield      DOUBLE NOT NULL,
		break_even_point  DOUBLE NOT NULL,
		created_at        DATETIME(6) NOT NULL,
		INDEX idx_analyses_user (user_id, created_at),
		CONSTRAINT fk_analyses_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id         VARCHAR(36) PRIMARY KEY,
		user_id    VARCHAR(36) NULL,
		action     VARCHAR(64) NOT NULL,
		details    TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_activity_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
