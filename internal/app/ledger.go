package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// confirmedOverlaps is the single overlap query: every confirmed booking for
// the host, across all of its event types, whose interval overlaps
// [start, end) under the half-open rule. It runs both against the pool (slot
// display) and inside the admission transaction.
func confirmedOverlaps(ctx context.Context, q querier, hostID string, start, end time.Time) ([]Booking, error) {
	rows, err := q.Query(ctx,
		`SELECT id, host_id, event_type_id, booker_name, booker_email, start_at, end_at, status, created_at
		 FROM bookings
		 WHERE host_id=$1 AND status=$2 AND start_at < $4 AND end_at > $3
		 ORDER BY start_at`,
		hostID, StatusConfirmed, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query overlapping bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.HostID, &b.EventTypeID, &b.BookerName, &b.BookerEmail,
			&b.StartAt, &b.EndAt, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ConfirmedOverlaps exposes the overlap query for read paths.
func (a *App) ConfirmedOverlaps(ctx context.Context, hostID string, start, end time.Time) ([]Booking, error) {
	return confirmedOverlaps(ctx, a.DB, hostID, start, end)
}

// ListBookings returns all of the host's bookings, newest first, with the
// event type title joined in for the dashboard. Bookings whose event type was
// deleted still appear, with an empty title.
func (a *App) ListBookings(ctx context.Context, hostID string) ([]Booking, error) {
	rows, err := a.DB.Query(ctx,
		`SELECT b.id, b.host_id, b.event_type_id, COALESCE(e.title, ''), b.booker_name, b.booker_email,
		        b.start_at, b.end_at, b.status, b.created_at
		 FROM bookings b
		 LEFT JOIN event_types e ON e.id = b.event_type_id
		 WHERE b.host_id=$1
		 ORDER BY b.start_at DESC`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.HostID, &b.EventTypeID, &b.EventTitle, &b.BookerName, &b.BookerEmail,
			&b.StartAt, &b.EndAt, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CancelBooking flips a booking to cancelled. Cancelling an already-cancelled
// booking is a no-op that still succeeds; an unknown id is ErrNotFound. The
// row is kept for history, and the partial unique index frees the slot the
// moment status changes.
func (a *App) CancelBooking(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := a.DB.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, StatusCancelled, id)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
