package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/utils"
)

// ensureDaySchedule materializes the (doctor, date) ledger on first access.
// The base slot list is generated from the doctor's current window; because
// generation is pure, concurrent first-access callers racing through the
// idempotent create all propose the identical list and converge on one
// record.
func (svc *DefaultAppointmentService) ensureDaySchedule(ctx context.Context, doctor *models.Doctor, date string) (*models.DaySchedule, error) {
	if existing, err := svc.Schedules.GetDaySchedule(ctx, doctor.ID, date); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	window := doctor.Availability
	if window.From == "" || window.To == "" {
		return nil, ConfigurationError{DoctorID: doctor.ID, Reason: "no working-hours window set"}
	}

	duration := ClampSlotDuration(doctor.SlotDurationMinutes)
	baseSlots := GenerateSlots(window.From, window.To, duration)
	if len(baseSlots) == 0 {
		return nil, ConfigurationError{DoctorID: doctor.ID, Reason: "working-hours window yields no slots"}
	}

	return svc.Schedules.EnsureDaySchedule(ctx, doctor.ID, date, baseSlots, duration)
}

// reserveSlot runs the past-slot pre-check and then the atomic conditional
// append. The pre-check is deliberately outside the atomic step: a benign
// race across a clock boundary is tolerated, double booking is not.
func (svc *DefaultAppointmentService) reserveSlot(ctx context.Context, doctorID, date string, entry models.BookedSlot) error {
	scheduledAt, err := DeriveScheduledAt(date, entry.Time)
	if err != nil {
		return ValidationError{Field: "time", Reason: err.Error()}
	}
	if !scheduledAt.After(time.Now().UTC()) {
		return PastSlotError{Date: date, Time: entry.Time}
	}

	outcome, err := svc.Schedules.ReserveSlot(ctx, doctorID, date, entry)
	if err != nil {
		return err
	}
	switch outcome {
	case scheduleRepo.Reserved:
		return nil
	case scheduleRepo.ScheduleMissing:
		return NotFoundError{Resource: "day schedule", ID: doctorID + "/" + date}
	default:
		return ConflictError{Date: date, Time: entry.Time}
	}
}

// releaseSlot undoes a reservation. Best-effort and attempted exactly once:
// on failure the caller surfaces a CompensationError so operators can tell
// a stuck reservation apart from an ordinary failed request.
func (svc *DefaultAppointmentService) releaseSlot(ctx context.Context, doctorID, date, slotTime string) error {
	if err := svc.Schedules.ReleaseSlot(ctx, doctorID, date, slotTime); err != nil {
		compErr := CompensationError{DoctorID: doctorID, Date: date, Time: slotTime, Err: err}
		utils.GetLogger().Error("slot release failed, reservation may be orphaned",
			zap.String("doctorID", doctorID),
			zap.String("date", date),
			zap.String("time", slotTime),
			zap.Error(err))
		return compErr
	}
	return nil
}
