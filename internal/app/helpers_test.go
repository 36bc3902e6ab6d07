package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// testApp connects to the database named by TEST_DATABASE_URL, resets state
// and seeds one host. Tests that need it are skipped when the variable is
// unset, so the pure generator tests always run.
func testApp(t *testing.T) *App {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	a := &App{DB: pool}
	if err := a.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, table := range []string{"bookings", "availability_rules", "event_types", "hosts"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	hostID, err := a.EnsureDefaultHost(ctx, "Test Host", "UTC")
	if err != nil {
		t.Fatalf("seed host: %v", err)
	}
	a.HostID = hostID
	return a
}

func seedEventType(t *testing.T, a *App, slug string, durationMins int) *EventType {
	t.Helper()
	et, err := a.CreateEventType(context.Background(), a.HostID, EventTypeRequest{
		Title:        "Intro Call",
		Slug:         slug,
		DurationMins: durationMins,
	})
	if err != nil {
		t.Fatalf("seed event type: %v", err)
	}
	return et
}

func seedWeek(t *testing.T, a *App, rules ...AvailabilityRule) {
	t.Helper()
	if err := a.ReplaceAvailability(context.Background(), a.HostID, rules, "UTC"); err != nil {
		t.Fatalf("seed availability: %v", err)
	}
}

func at(day time.Time, hour, min int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}
