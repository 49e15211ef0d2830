package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

// BookSlot is the reserve-then-create flow. The appointment identifier is
// generated before anything is written and embedded in the slot entry by
// the reservation, so the slot and the record share one identity from the
// start. If creating the record fails, the reservation is compensated.
func (svc *DefaultAppointmentService) BookSlot(ctx context.Context, req BookSlotRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if err := validateBookSlotRequest(req); err != nil {
		return nil, err
	}

	doctor, err := svc.Doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, NotFoundError{Resource: "doctor", ID: req.DoctorID}
	}

	schedule, err := svc.ensureDaySchedule(ctx, doctor, req.Date)
	if err != nil {
		return nil, err
	}
	if !scheduleHasBaseSlot(schedule, req.Time) {
		return nil, ConflictError{Date: req.Date, Time: req.Time}
	}

	fee := doctor.FeeFor(req.Type)
	appointmentID := uuid.New().String()
	now := time.Now().UTC()

	entry := models.BookedSlot{
		Time:          req.Time,
		Type:          req.Type,
		Fee:           fee,
		AppointmentID: appointmentID,
		PatientID:     req.PatientID,
		BookedAt:      now,
	}
	if err := svc.reserveSlot(ctx, req.DoctorID, req.Date, entry); err != nil {
		return nil, err
	}

	scheduledAt, err := DeriveScheduledAt(req.Date, req.Time)
	if err != nil {
		// Validation after a successful reservation means the slot must be
		// handed back before reporting the failure.
		if relErr := svc.releaseSlot(ctx, req.DoctorID, req.Date, req.Time); relErr != nil {
			return nil, relErr
		}
		return nil, ValidationError{Field: "time", Reason: err.Error()}
	}

	appt := &models.Appointment{
		ID:            appointmentID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Type:          req.Type,
		ScheduledAt:   scheduledAt,
		Date:          req.Date,
		StartTime:     req.Time,
		EndTime:       SlotEndTime(req.Time, schedule.SlotDurationMinutes),
		Fee:           fee,
		Status:        models.AppointmentBooked,
		PaymentStatus: models.PaymentPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := svc.Appointments.Create(ctx, appt); err != nil {
		// The reservation exists but its appointment never will: release
		// the slot so it is not stuck.
		if relErr := svc.releaseSlot(ctx, req.DoctorID, req.Date, req.Time); relErr != nil {
			return nil, relErr
		}
		return nil, fmt.Errorf("failed to create appointment after reservation: %w", err)
	}

	svc.invalidateAvailability(ctx, req.DoctorID, req.Date)
	svc.scheduleReminder(ctx, appt)

	logger.Info("appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", req.DoctorID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("type", req.Type))
	return appt, nil
}

func validateBookSlotRequest(req BookSlotRequest) error {
	if req.PatientID == "" {
		return ValidationError{Field: "patientId", Reason: "required"}
	}
	if req.DoctorID == "" {
		return ValidationError{Field: "doctorId", Reason: "required"}
	}
	if !IsValidDate(req.Date) {
		return ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if !IsValidClock(req.Time) {
		return ValidationError{Field: "time", Reason: "expected HH:MM (24-hour)"}
	}
	if !models.IsValidConsultationType(req.Type) {
		return ValidationError{Field: "type", Reason: "unknown consultation type"}
	}
	return nil
}

// scheduleHasBaseSlot guards against reserving arbitrary times that were
// never generated for the day. Tolerated in the ledger itself, but not
// accepted from callers.
func scheduleHasBaseSlot(schedule *models.DaySchedule, slotTime string) bool {
	for _, t := range schedule.BaseSlotTimes {
		if t == slotTime {
			return true
		}
	}
	return false
}

func (svc *DefaultAppointmentService) scheduleReminder(ctx context.Context, appt *models.Appointment) {
	if svc.Reminders == nil {
		return
	}
	if err := svc.Reminders.ScheduleAppointmentReminder(ctx, appt); err != nil {
		// Reminders are best-effort; a booking never fails because its
		// reminder could not be queued.
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("appointmentID", appt.ID),
			zap.Error(err))
	}
}
