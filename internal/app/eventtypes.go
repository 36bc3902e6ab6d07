package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const eventTypeColumns = `id, host_id, title, slug, duration_minutes, description, created_at`

func validateEventType(req *EventTypeRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))
	if req.Title == "" {
		return validationf("title is required")
	}
	if req.Slug == "" {
		return validationf("slug is required")
	}
	if strings.ContainsAny(req.Slug, " /") {
		return validationf("slug must not contain spaces or slashes")
	}
	if req.DurationMins <= 0 {
		return validationf("duration must be a positive number of minutes")
	}
	return nil
}

// CreateEventType validates and inserts a new event type for the host.
func (a *App) CreateEventType(ctx context.Context, hostID string, req EventTypeRequest) (*EventType, error) {
	if err := validateEventType(&req); err != nil {
		return nil, err
	}
	et := &EventType{
		ID:           uuid.New().String(),
		HostID:       hostID,
		Title:        req.Title,
		Slug:         req.Slug,
		DurationMins: req.DurationMins,
		Description:  req.Description,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := a.DB.Exec(ctx,
		`INSERT INTO event_types (id, host_id, title, slug, duration_minutes, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		et.ID, et.HostID, et.Title, et.Slug, et.DurationMins, et.Description, et.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("insert event type: %w", err)
	}
	return et, nil
}

// ListEventTypes returns the host's event types, newest first.
func (a *App) ListEventTypes(ctx context.Context, hostID string) ([]EventType, error) {
	rows, err := a.DB.Query(ctx,
		`SELECT `+eventTypeColumns+` FROM event_types WHERE host_id=$1 ORDER BY created_at DESC`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	defer rows.Close()

	var out []EventType
	for rows.Next() {
		var et EventType
		if err := rows.Scan(&et.ID, &et.HostID, &et.Title, &et.Slug, &et.DurationMins, &et.Description, &et.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		out = append(out, et)
	}
	return out, rows.Err()
}

// GetEventType returns an event type by id, or ErrNotFound.
func (a *App) GetEventType(ctx context.Context, id string) (*EventType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var et EventType
	err := a.DB.QueryRow(ctx,
		`SELECT `+eventTypeColumns+` FROM event_types WHERE id=$1`, id,
	).Scan(&et.ID, &et.HostID, &et.Title, &et.Slug, &et.DurationMins, &et.Description, &et.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event type: %w", err)
	}
	return &et, nil
}

// GetEventTypeBySlug is the public lookup used by the booking page.
func (a *App) GetEventTypeBySlug(ctx context.Context, slug string) (*EventType, error) {
	var et EventType
	err := a.DB.QueryRow(ctx,
		`SELECT `+eventTypeColumns+` FROM event_types WHERE slug=$1`, slug,
	).Scan(&et.ID, &et.HostID, &et.Title, &et.Slug, &et.DurationMins, &et.Description, &et.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event type by slug: %w", err)
	}
	return &et, nil
}

// UpdateEventType replaces the mutable fields of a host's event type.
func (a *App) UpdateEventType(ctx context.Context, hostID, id string, req EventTypeRequest) (*EventType, error) {
	if err := validateEventType(&req); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	tag, err := a.DB.Exec(ctx,
		`UPDATE event_types SET title=$1, slug=$2, duration_minutes=$3, description=$4
		 WHERE id=$5 AND host_id=$6`,
		req.Title, req.Slug, req.DurationMins, req.Description, id, hostID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update event type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return a.GetEventType(ctx, id)
}

// DeleteEventType removes the event type. Historical bookings are kept; they
// simply stop being reachable through the public slug.
func (a *App) DeleteEventType(ctx context.Context, hostID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := a.DB.Exec(ctx,
		`DELETE FROM event_types WHERE id=$1 AND host_id=$2`, id, hostID,
	)
	if err != nil {
		return fmt.Errorf("delete event type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
