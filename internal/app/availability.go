package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetAvailability returns the host's weekly rules (ordered Sunday..Saturday)
// and the timezone they are interpreted in.
func (a *App) GetAvailability(ctx context.Context, hostID string) (*Availability, error) {
	var tz string
	err := a.DB.QueryRow(ctx, `SELECT timezone FROM hosts WHERE id=$1`, hostID).Scan(&tz)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get host timezone: %w", err)
	}

	rows, err := a.DB.Query(ctx,
		`SELECT day_of_week, start_time, end_time FROM availability_rules WHERE host_id=$1`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	defer rows.Close()

	var rules []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		if err := rows.Scan(&r.Weekday, &r.StartTime, &r.EndTime); err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}

	sort.Slice(rules, func(i, j int) bool {
		wi, _ := parseWeekday(rules[i].Weekday)
		wj, _ := parseWeekday(rules[j].Weekday)
		return wi < wj
	})
	return &Availability{Rules: rules, Timezone: tz}, nil
}

// ReplaceAvailability validates and installs the new rule set wholesale:
// every prior rule for the host is discarded and the timezone is updated in
// the same transaction, so a partial write is never observable. An empty
// timezone leaves the current one unchanged.
func (a *App) ReplaceAvailability(ctx context.Context, hostID string, rules []AvailabilityRule, timezone string) error {
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return validationf("unknown timezone %q", timezone)
		}
	}
	seen := map[string]bool{}
	for _, r := range rules {
		if _, err := parseWeekday(r.Weekday); err != nil {
			return err
		}
		if seen[r.Weekday] {
			return validationf("duplicate rule for %s", r.Weekday)
		}
		seen[r.Weekday] = true

		start, err := parseHHMM(r.StartTime)
		if err != nil {
			return err
		}
		end, err := parseHHMM(r.EndTime)
		if err != nil {
			return err
		}
		if !end.After(start) {
			return validationf("rule %s: start_time must be before end_time", r)
		}
	}

	tx, err := a.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace availability: %w", err)
	}
	defer tx.Rollback(ctx)

	if timezone != "" {
		tag, err := tx.Exec(ctx, `UPDATE hosts SET timezone=$1 WHERE id=$2`, timezone, hostID)
		if err != nil {
			return fmt.Errorf("update timezone: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	} else {
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM hosts WHERE id=$1`, hostID).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("look up host: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM availability_rules WHERE host_id=$1`, hostID); err != nil {
		return fmt.Errorf("clear availability rules: %w", err)
	}
	for _, r := range rules {
		if _, err := tx.Exec(ctx,
			`INSERT INTO availability_rules (host_id, day_of_week, start_time, end_time)
			 VALUES ($1, $2, $3, $4)`,
			hostID, r.Weekday, r.StartTime, r.EndTime,
		); err != nil {
			return fmt.Errorf("insert availability rule: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace availability: %w", err)
	}
	return nil
}
