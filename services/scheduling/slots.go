package scheduling

import (
	"fmt"
	"regexp"
	"time"
)

// Slot durations are clamped to a sane range; a zero value falls back to
// the default.
const (
	minSlotDurationMinutes     = 5
	maxSlotDurationMinutes     = 180
	defaultSlotDurationMinutes = 15
)

var (
	dateFormatRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockFormatRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// IsValidDate reports whether s is a syntactically valid "YYYY-MM-DD" date.
func IsValidDate(s string) bool {
	if !dateFormatRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidClock reports whether s is a valid 24-hour "HH:MM" time of day.
func IsValidClock(s string) bool {
	return clockFormatRe.MatchString(s)
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	if !clockFormatRe.MatchString(s) {
		return 0, false
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh*60 + mm, true
}

// formatClock converts minutes since midnight back to "HH:MM".
func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ClampSlotDuration normalizes a configured slot duration to the supported
// range, defaulting when unset.
func ClampSlotDuration(minutes int) int {
	if minutes <= 0 {
		minutes = defaultSlotDurationMinutes
	}
	if minutes < minSlotDurationMinutes {
		return minSlotDurationMinutes
	}
	if minutes > maxSlotDurationMinutes {
		return maxSlotDurationMinutes
	}
	return minutes
}

// GenerateSlots derives the ordered candidate slot start times for one day
// from a working-hours window and a slot duration. Pure and deterministic:
// concurrent first-access callers racing to create a day schedule must all
// derive the identical list. Invalid or too-short windows yield no slots.
func GenerateSlots(open, close string, durationMinutes int) []string {
	openMins, okOpen := parseClock(open)
	closeMins, okClose := parseClock(close)
	if !okOpen || !okClose || closeMins <= openMins {
		return []string{}
	}

	dur := ClampSlotDuration(durationMinutes)

	slots := []string{}
	for t := openMins; t+dur <= closeMins; t += dur {
		slots = append(slots, formatClock(t))
	}
	return slots
}

// SlotEndTime returns the "HH:MM" end of a slot starting at start. The
// result wraps at midnight only in degenerate configurations and is for
// display, not scheduling math.
func SlotEndTime(start string, durationMinutes int) string {
	mins, ok := parseClock(start)
	if !ok {
		return start
	}
	return formatClock((mins + ClampSlotDuration(durationMinutes)) % (24 * 60))
}

// DeriveScheduledAt computes the appointment instant from date and time in
// UTC. Always derived server-side; a combined caller-supplied timestamp is
// never trusted.
func DeriveScheduledAt(date, clock string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	mins, ok := parseClock(clock)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(mins) * time.Minute), nil
}
