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

// ProposeBooking is the admission path. The overlap check and the insert run
// inside one transaction under a lock on the host row, so two concurrent
// proposals for overlapping intervals cannot both observe an empty overlap
// set and both commit: the slower one blocks on the lock, re-reads, and gets
// ErrSlotTaken.
//
// A transient transaction failure (serialization conflict, deadlock) is
// retried once; a genuine ErrSlotTaken never is.
func (a *App) ProposeBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	req.BookerName = strings.TrimSpace(req.BookerName)
	req.BookerEmail = strings.TrimSpace(strings.ToLower(req.BookerEmail))
	if req.BookerName == "" {
		return nil, validationf("booker_name is required")
	}
	if req.BookerEmail == "" || !strings.Contains(req.BookerEmail, "@") {
		return nil, validationf("booker_email must be a valid email address")
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() || !req.StartAt.Before(req.EndAt) {
		return nil, validationf("start_time must be before end_time")
	}

	et, err := a.GetEventType(ctx, req.EventTypeID)
	if err != nil {
		return nil, err
	}
	if !req.EndAt.Equal(req.StartAt.Add(time.Duration(et.DurationMins) * time.Minute)) {
		return nil, validationf("interval must be exactly %d minutes for this event type", et.DurationMins)
	}

	booking, err := a.admit(ctx, et, req)
	if isTransientTxErr(err) {
		booking, err = a.admit(ctx, et, req)
	}
	return booking, err
}

func (a *App) admit(ctx context.Context, et *EventType, req BookingRequest) (*Booking, error) {
	tx, err := a.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin admission: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock on the host serializes concurrent admissions for the same
	// calendar. Held only for the check-and-insert below, never across any
	// external wait.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM hosts WHERE id=$1 FOR UPDATE`, et.HostID).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock host row: %w", err)
	}

	taken, err := confirmedOverlaps(ctx, tx, et.HostID, req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, ErrSlotTaken
	}

	b := &Booking{
		ID:          uuid.New().String(),
		HostID:      et.HostID,
		EventTypeID: et.ID,
		EventTitle:  et.Title,
		BookerName:  req.BookerName,
		BookerEmail: req.BookerEmail,
		StartAt:     req.StartAt.UTC(),
		EndAt:       req.EndAt.UTC(),
		Status:      StatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, host_id, event_type_id, booker_name, booker_email, start_at, end_at, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.HostID, b.EventTypeID, b.BookerName, b.BookerEmail, b.StartAt, b.EndAt, b.Status, b.CreatedAt,
	)
	if err != nil {
		// The confirmed-slot unique index backstops the row lock for
		// exact-duplicate start times.
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit admission: %w", err)
	}
	return b, nil
}

// isTransientTxErr reports serialization failures and deadlocks, the two
// conditions worth one transparent retry.
func isTransientTxErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
