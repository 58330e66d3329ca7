package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`
	CREATE TABLE IF NOT EXISTS tours (
		id UUID PRIMARY KEY,
		guide_id UUID NOT NULL,
		title TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		currency TEXT NOT NULL DEFAULT 'USD',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`
	CREATE TABLE IF NOT EXISTS tour_slots (
		tour_id UUID NOT NULL REFERENCES tours(id) ON DELETE CASCADE,
		slot_date DATE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL DEFAULT '',
		available_spots INTEGER NOT NULL CHECK (available_spots >= 0),
		capacity INTEGER NOT NULL,
		PRIMARY KEY (tour_id, slot_date, start_time)
	)`,
	`
	CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		tour_id UUID NOT NULL,
		tour_title TEXT NOT NULL DEFAULT '',
		tourist_id UUID NOT NULL,
		guide_id UUID NOT NULL,
		selected_date DATE NOT NULL,
		selected_time TEXT NOT NULL,
		number_of_people INTEGER NOT NULL CHECK (number_of_people >= 1),
		total_price NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		special_requests TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_tourist_created_idx ON bookings (tourist_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS bookings_guide_date_idx ON bookings (guide_id, selected_date)`,
	`CREATE INDEX IF NOT EXISTS bookings_tour_date_idx ON bookings (tour_id, selected_date)`,
	`CREATE INDEX IF NOT EXISTS bookings_pending_created_idx ON bookings (created_at) WHERE status = 'pending'`,
}

// EnsureSchema creates the tables the repositories need. Bookings keep no
// foreign key to tours so deleting a tour leaves booking history intact.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}
