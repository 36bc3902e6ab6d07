package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func proposal(et *EventType, start time.Time, who string) BookingRequest {
	return BookingRequest{
		EventTypeID: et.ID,
		BookerName:  who,
		BookerEmail: who + "@example.com",
		StartAt:     start,
		EndAt:       start.Add(time.Duration(et.DurationMins) * time.Minute),
	}
}

func TestProposeBookingConfirms(t *testing.T) {
	a := testApp(t)
	et := seedEventType(t, a, "intro", 30)
	start := at(monday(), 10, 0)

	b, err := a.ProposeBooking(context.Background(), proposal(et, start, "alice"))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if !b.EndAt.Equal(b.StartAt.Add(30 * time.Minute)) {
		t.Fatalf("end must equal start plus duration, got %v-%v", b.StartAt, b.EndAt)
	}
}

func TestProposeBookingRejectsTakenSlot(t *testing.T) {
	a := testApp(t)
	et := seedEventType(t, a, "intro", 30)
	start := at(monday(), 10, 0)
	ctx := context.Background()

	if _, err := a.ProposeBooking(ctx, proposal(et, start, "alice")); err != nil {
		t.Fatalf("first propose: %v", err)
	}
	if _, err := a.ProposeBooking(ctx, proposal(et, start, "bob")); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestProposeBookingConflictsAcrossEventTypes(t *testing.T) {
	// The host is the overlap domain: a 60 minute booking on one event type
	// blocks a 30 minute proposal on another when the intervals overlap.
	a := testApp(t)
	long := seedEventType(t, a, "deep-dive", 60)
	short := seedEventType(t, a, "intro", 30)
	ctx := context.Background()

	if _, err := a.ProposeBooking(ctx, proposal(long, at(monday(), 10, 0), "alice")); err != nil {
		t.Fatalf("propose long: %v", err)
	}
	if _, err := a.ProposeBooking(ctx, proposal(short, at(monday(), 10, 30), "bob")); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected cross-event-type conflict, got %v", err)
	}
	// Back-to-back at 11:00 is fine.
	if _, err := a.ProposeBooking(ctx, proposal(short, at(monday(), 11, 0), "carol")); err != nil {
		t.Fatalf("back-to-back proposal should succeed: %v", err)
	}
}

func TestProposeBookingValidation(t *testing.T) {
	a := testApp(t)
	et := seedEventType(t, a, "intro", 30)
	start := at(monday(), 10, 0)
	ctx := context.Background()

	req := proposal(et, start, "alice")
	req.EndAt = start.Add(45 * time.Minute)
	if _, err := a.ProposeBooking(ctx, req); !IsValidation(err) {
		t.Fatalf("interval not matching duration should be rejected, got %v", err)
	}

	req = proposal(et, start, "alice")
	req.EndAt = start.Add(-30 * time.Minute)
	if _, err := a.ProposeBooking(ctx, req); !IsValidation(err) {
		t.Fatalf("inverted interval should be rejected, got %v", err)
	}

	req = proposal(et, start, "alice")
	req.BookerEmail = "not-an-email"
	if _, err := a.ProposeBooking(ctx, req); !IsValidation(err) {
		t.Fatalf("bad email should be rejected, got %v", err)
	}
}

func TestProposeBookingUnknownEventType(t *testing.T) {
	a := testApp(t)
	req := BookingRequest{
		EventTypeID: "00000000-0000-0000-0000-000000000000",
		BookerName:  "alice",
		BookerEmail: "alice@example.com",
		StartAt:     at(monday(), 10, 0),
		EndAt:       at(monday(), 10, 30),
	}
	if _, err := a.ProposeBooking(context.Background(), req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	a := testApp(t)
	et := seedEventType(t, a, "intro", 30)
	start := at(monday(), 10, 0)
	ctx := context.Background()

	b, err := a.ProposeBooking(ctx, proposal(et, start, "alice"))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if err := a.CancelBooking(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := a.ProposeBooking(ctx, proposal(et, start, "bob")); err != nil {
		t.Fatalf("cancelled bookings must never block: %v", err)
	}
}

// Two concurrent proposals for the same slot: exactly one confirms. Repeated
// because the race only bites when both transactions interleave.
func TestConcurrentProposalsAdmitExactlyOne(t *testing.T) {
	a := testApp(t)
	et := seedEventType(t, a, "intro", 30)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		start := at(monday().AddDate(0, 0, i/10), 9, 0).Add(time.Duration(i%10) * 30 * time.Minute)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				who := fmt.Sprintf("racer%d-%d", i, j)
				_, errs[j] = a.ProposeBooking(ctx, proposal(et, start, who))
			}(j)
		}
		wg.Wait()

		confirmed, rejected := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				confirmed++
			case errors.Is(err, ErrSlotTaken):
				rejected++
			default:
				t.Fatalf("iteration %d: unexpected error %v", i, err)
			}
		}
		if confirmed != 1 || rejected != 1 {
			t.Fatalf("iteration %d: %d confirmed, %d rejected; want exactly one of each", i, confirmed, rejected)
		}
	}
}
