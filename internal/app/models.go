package app

import (
	"fmt"
	"time"
)

// Booking statuses. Cancelled bookings stay in the ledger for history but
// never participate in overlap checks again.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// AvailabilityRule is one weekday's open window, interpreted in the host's
// timezone. At most one rule per weekday; a missing weekday means the host is
// unavailable that day.
type AvailabilityRule struct {
	Weekday   string `json:"day_of_week"` // "Monday" .. "Sunday"
	StartTime string `json:"start_time"`  // "HH:MM"
	EndTime   string `json:"end_time"`    // "HH:MM"
}

// Availability is a host's full weekly pattern plus the zone its times are
// read in. Saved wholesale: every replace discards the previous rule set.
type Availability struct {
	Rules    []AvailabilityRule `json:"schedule"`
	Timezone string             `json:"timezone"`
}

// Host is the calendar owner. Availability, event types and bookings all hang
// off a host id; a single-host deployment seeds exactly one row.
type Host struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// EventType is a bookable meeting template, looked up publicly by slug.
type EventType struct {
	ID           string    `json:"id"`
	HostID       string    `json:"host_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	DurationMins int       `json:"duration"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// EventTypeRequest is the create/update payload for an event type.
type EventTypeRequest struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	DurationMins int    `json:"duration"`
	Description  string `json:"description"`
}

// Booking is one confirmed or cancelled reservation. EventTitle is filled by
// listing queries for the dashboard; it stays empty if the event type was
// deleted since.
type Booking struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	EventTypeID string    `json:"event_type_id"`
	EventTitle  string    `json:"event_title,omitempty"`
	BookerName  string    `json:"booker_name"`
	BookerEmail string    `json:"booker_email"`
	StartAt     time.Time `json:"start_time"`
	EndAt       time.Time `json:"end_time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// BookingRequest is a visitor's proposed reservation.
type BookingRequest struct {
	EventTypeID string    `json:"event_type_id"`
	BookerName  string    `json:"booker_name"`
	BookerEmail string    `json:"booker_email"`
	StartAt     time.Time `json:"start_time"`
	EndAt       time.Time `json:"end_time"`
}

// Slot is a candidate interval offered for booking.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

func parseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[name]
	if !ok {
		return 0, validationf("unknown day_of_week %q", name)
	}
	return wd, nil
}

// parseHHMM reads a "HH:MM" time of day, tolerating trailing seconds the
// database may append.
func parseHHMM(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, validationf("invalid time of day %q", s)
	}
	tt, err := time.Parse("15:04", s[:5])
	if err != nil {
		return time.Time{}, validationf("invalid time of day %q", s)
	}
	return tt, nil
}

func (r AvailabilityRule) String() string {
	return fmt.Sprintf("%s %s-%s", r.Weekday, r.StartTime, r.EndTime)
}
