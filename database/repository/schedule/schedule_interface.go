package scheduleRepo

import (
	"context"

	"medibook/models"
)

// ReserveOutcome reports how a conditional slot reservation resolved.
type ReserveOutcome int

const (
	// Reserved means the entry was appended and the time is now held.
	Reserved ReserveOutcome = iota
	// Conflict means another booking already holds the requested time.
	Conflict
	// ScheduleMissing means no day schedule exists for (doctor, date).
	ScheduleMissing
)

// ScheduleRepository is the data access contract for the day-schedule
// ledger. The ledger is only ever mutated through the conditional append
// (ReserveSlot) and the unconditional removal (ReleaseSlot); partial edits
// of existing booked entries are not part of the contract.
type ScheduleRepository interface {
	// EnsureDaySchedule creates the (doctorID, date) schedule if absent and
	// returns the stored record. Creation is idempotent: concurrent callers
	// converge to a single record with one generated base slot list.
	EnsureDaySchedule(ctx context.Context, doctorID, date string, baseSlotTimes []string, slotDurationMinutes int) (*models.DaySchedule, error)

	// GetDaySchedule returns the schedule, or nil when none exists.
	GetDaySchedule(ctx context.Context, doctorID, date string) (*models.DaySchedule, error)

	// ReserveSlot atomically appends the entry to booked_slots, but only if
	// no existing entry holds the same time. Exactly one of any set of
	// concurrent calls for a fixed (doctorID, date, entry.Time) observes
	// Reserved; all others observe Conflict.
	ReserveSlot(ctx context.Context, doctorID, date string, entry models.BookedSlot) (ReserveOutcome, error)

	// ReleaseSlot unconditionally removes the booked entry with the given
	// time. Removing an absent entry is not an error.
	ReleaseSlot(ctx context.Context, doctorID, date, slotTime string) error
}
