package repository

import (
	"context"
	"database/sql"
)

// schemaStatements creates the tables this service needs.  Statements
// are idempotent so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS trains (
		id      BIGINT UNSIGNED NOT NULL,
		version BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		train_id  BIGINT UNSIGNED NOT NULL,
		number    INT NOT NULL,
		row_num   INT NOT NULL,
		is_booked TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (train_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		train_id   BIGINT UNSIGNED NOT NULL,
		ref        CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_bookings_train (train_id)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_seats (
		booking_id  BIGINT UNSIGNED NOT NULL,
		seat_number INT NOT NULL,
		PRIMARY KEY (booking_id, seat_number),
		CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	)`,
}

// EnsureSchema creates all tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
