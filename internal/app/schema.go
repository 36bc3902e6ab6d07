package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// bookings carry host_id denormalized from the owning event type so the
// overlap query and the confirmed-slot unique index need no join, and so
// bookings survive deletion of their event type (no foreign key on purpose).
const schema = `
CREATE TABLE IF NOT EXISTS hosts (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	timezone TEXT NOT NULL DEFAULT 'UTC'
);

CREATE TABLE IF NOT EXISTS availability_rules (
	host_id UUID NOT NULL REFERENCES hosts(id),
	day_of_week TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	PRIMARY KEY (host_id, day_of_week)
);

CREATE TABLE IF NOT EXISTS event_types (
	id UUID PRIMARY KEY,
	host_id UUID NOT NULL REFERENCES hosts(id),
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	duration_minutes INT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	host_id UUID NOT NULL,
	event_type_id UUID NOT NULL,
	booker_name TEXT NOT NULL,
	booker_email TEXT NOT NULL,
	start_at TIMESTAMPTZ NOT NULL,
	end_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL DEFAULT 'confirmed',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_host_time_idx
	ON bookings (host_id, start_at);

CREATE UNIQUE INDEX IF NOT EXISTS bookings_confirmed_slot_idx
	ON bookings (host_id, start_at) WHERE status = 'confirmed';
`

// EnsureSchema applies the schema. Every statement is idempotent, so it runs
// unconditionally at startup.
func (a *App) EnsureSchema(ctx context.Context) error {
	if _, err := a.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// EnsureDefaultHost returns the existing host or seeds one, so a fresh
// single-host deployment is usable without an account system.
func (a *App) EnsureDefaultHost(ctx context.Context, name, timezone string) (string, error) {
	var id string
	err := a.DB.QueryRow(ctx, `SELECT id FROM hosts ORDER BY name LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("look up host: %w", err)
	}

	if timezone == "" {
		timezone = "UTC"
	}
	id = uuid.New().String()
	if _, err := a.DB.Exec(ctx,
		`INSERT INTO hosts (id, name, timezone) VALUES ($1, $2, $3)`,
		id, name, timezone,
	); err != nil {
		return "", fmt.Errorf("seed host: %w", err)
	}
	return id, nil
}
