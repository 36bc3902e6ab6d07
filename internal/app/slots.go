package app

import (
	"context"
	"time"
)

// BuildSlots expands one day's availability rule into candidate start times at
// a fixed stride equal to the event duration, dropping every candidate that
// overlaps a confirmed booking. Overlap is the half-open interval test, so
// back-to-back bookings are legal. A nil rule means the host is off that day.
//
// Pure: no side effects, safe to recompute on every display request. The
// authoritative gate against double booking is ProposeBooking, not this list.
func BuildSlots(date time.Time, rule *AvailabilityRule, durationMins int, booked []Booking, loc *time.Location) ([]Slot, error) {
	if durationMins <= 0 {
		return nil, validationf("duration must be a positive number of minutes")
	}
	if rule == nil {
		return nil, nil
	}

	startTOD, err := parseHHMM(rule.StartTime)
	if err != nil {
		return nil, err
	}
	endTOD, err := parseHHMM(rule.EndTime)
	if err != nil {
		return nil, err
	}
	if !endTOD.After(startTOD) {
		return nil, validationf("rule %s: start_time must be before end_time", rule)
	}

	year, month, day := date.Date()
	windowStart := time.Date(year, month, day, startTOD.Hour(), startTOD.Minute(), 0, 0, loc)
	windowEnd := time.Date(year, month, day, endTOD.Hour(), endTOD.Minute(), 0, 0, loc)

	d := time.Duration(durationMins) * time.Minute
	var slots []Slot
	for cursor := windowStart; !cursor.Add(d).After(windowEnd); cursor = cursor.Add(d) {
		if overlapsAny(cursor, cursor.Add(d), booked) {
			continue
		}
		slots = append(slots, Slot{Start: cursor, End: cursor.Add(d)})
	}
	return slots, nil
}

// overlaps applies the half-open test: [start,end) conflicts with [b.StartAt,
// b.EndAt) only when start < b.end and end > b.start. Touching endpoints do
// not conflict.
func overlaps(start, end time.Time, b Booking) bool {
	return start.Before(b.EndAt) && end.After(b.StartAt)
}

func overlapsAny(start, end time.Time, booked []Booking) bool {
	for _, b := range booked {
		if overlaps(start, end, b) {
			return true
		}
	}
	return false
}

// ListSlots returns the open slots for an event type on one calendar day,
// ascending, in the host's timezone. The same host-scoped overlap query used
// at admission time filters the display list, so the two views cannot drift.
func (a *App) ListSlots(ctx context.Context, slug string, date time.Time) ([]Slot, error) {
	et, err := a.GetEventTypeBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	avail, err := a.GetAvailability(ctx, et.HostID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(avail.Timezone)
	if err != nil {
		loc = time.UTC
	}

	rule := ruleFor(avail.Rules, date.Weekday())
	if rule == nil {
		return nil, nil
	}

	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	booked, err := a.ConfirmedOverlaps(ctx, et.HostID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return BuildSlots(date, rule, et.DurationMins, booked, loc)
}

func ruleFor(rules []AvailabilityRule, wd time.Weekday) *AvailabilityRule {
	for i := range rules {
		if rules[i].Weekday == wd.String() {
			return &rules[i]
		}
	}
	return nil
}
