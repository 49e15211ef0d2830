package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

// CancelAppointment cancels a booked appointment and releases its slot. The
// release is unconditional removal, not compare-and-set: the requester has
// already been verified as a party to the appointment row.
func (svc *DefaultAppointmentService) CancelAppointment(ctx context.Context, appointmentID, requesterID, reason string) (*models.Appointment, error) {
	appt, err := svc.ownedBookedAppointment(ctx, appointmentID, requesterID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appt.Status = models.AppointmentCancelled
	appt.CancelledAt = &now
	appt.CancelReason = reason
	appt.UpdatedAt = now

	if err := svc.Appointments.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment %s: %w", appointmentID, err)
	}

	if err := svc.releaseSlot(ctx, appt.DoctorID, appt.Date, appt.StartTime); err != nil {
		// The appointment is cancelled either way; the stuck slot is an
		// operator concern.
		return nil, err
	}

	svc.invalidateAvailability(ctx, appt.DoctorID, appt.Date)

	utils.GetLogger().Info("appointment cancelled",
		zap.String("appointmentID", appt.ID),
		zap.String("requesterID", requesterID))
	return appt, nil
}

// RescheduleAppointment moves a booked appointment: reserve the new slot
// first, then repoint the appointment, then release the old slot. A
// conflict on the new slot leaves everything untouched. A failed release of
// the old slot after the appointment moved is surfaced as a
// CompensationError; the appointment itself is never left inconsistent.
func (svc *DefaultAppointmentService) RescheduleAppointment(ctx context.Context, appointmentID, requesterID, newDate, newTime string) (*models.Appointment, error) {
	if !IsValidDate(newDate) {
		return nil, ValidationError{Field: "newDate", Reason: "expected YYYY-MM-DD"}
	}
	if !IsValidClock(newTime) {
		return nil, ValidationError{Field: "newTime", Reason: "expected HH:MM (24-hour)"}
	}

	appt, err := svc.ownedBookedAppointment(ctx, appointmentID, requesterID)
	if err != nil {
		return nil, err
	}

	doctor, err := svc.Doctors.GetByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, NotFoundError{Resource: "doctor", ID: appt.DoctorID}
	}

	newSchedule, err := svc.ensureDaySchedule(ctx, doctor, newDate)
	if err != nil {
		return nil, err
	}
	if !scheduleHasBaseSlot(newSchedule, newTime) {
		return nil, ConflictError{Date: newDate, Time: newTime}
	}

	oldDate, oldTime := appt.Date, appt.StartTime

	// The existing identifier moves with the booking: the new slot entry
	// carries the same appointment reference, type and fee.
	entry := models.BookedSlot{
		Time:          newTime,
		Type:          appt.Type,
		Fee:           appt.Fee,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		BookedAt:      time.Now().UTC(),
	}
	if err := svc.reserveSlot(ctx, appt.DoctorID, newDate, entry); err != nil {
		return nil, err
	}

	scheduledAt, err := DeriveScheduledAt(newDate, newTime)
	if err != nil {
		if relErr := svc.releaseSlot(ctx, appt.DoctorID, newDate, newTime); relErr != nil {
			return nil, relErr
		}
		return nil, ValidationError{Field: "newTime", Reason: err.Error()}
	}

	appt.Date = newDate
	appt.StartTime = newTime
	appt.EndTime = SlotEndTime(newTime, newSchedule.SlotDurationMinutes)
	appt.ScheduledAt = scheduledAt
	appt.UpdatedAt = time.Now().UTC()

	if err := svc.Appointments.Update(ctx, appt); err != nil {
		// The new reservation never attached to the moved appointment:
		// hand it back so the original booking stays the only one.
		if relErr := svc.releaseSlot(ctx, appt.DoctorID, newDate, newTime); relErr != nil {
			return nil, relErr
		}
		return nil, fmt.Errorf("failed to reschedule appointment %s: %w", appointmentID, err)
	}

	if err := svc.releaseSlot(ctx, appt.DoctorID, oldDate, oldTime); err != nil {
		// Known compensation gap: the appointment now points at the new
		// slot, the old entry is orphaned. Surfaced, never swallowed.
		return nil, err
	}

	svc.invalidateAvailability(ctx, appt.DoctorID, oldDate)
	svc.invalidateAvailability(ctx, appt.DoctorID, newDate)
	svc.scheduleReminder(ctx, appt)

	utils.GetLogger().Info("appointment rescheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("from", oldDate+" "+oldTime),
		zap.String("to", newDate+" "+newTime))
	return appt, nil
}

// CompleteAppointment marks a booked appointment completed. Provider-only:
// the patient attending does not end the consultation, the doctor does. The
// slot entry is left in place as booking history for the day.
func (svc *DefaultAppointmentService) CompleteAppointment(ctx context.Context, appointmentID, requesterID string) (*models.Appointment, error) {
	appt, err := svc.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if requesterID != appt.DoctorID {
		return nil, ForbiddenError{RequesterID: requesterID}
	}
	if appt.Status != models.AppointmentBooked {
		return nil, InvalidStateError{Status: appt.Status}
	}

	appt.Status = models.AppointmentCompleted
	appt.UpdatedAt = time.Now().UTC()
	if err := svc.Appointments.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to complete appointment %s: %w", appointmentID, err)
	}
	return appt, nil
}

// GetAppointment returns an appointment to one of its parties.
func (svc *DefaultAppointmentService) GetAppointment(ctx context.Context, appointmentID, requesterID string) (*models.Appointment, error) {
	appt, err := svc.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if requesterID != appt.PatientID && requesterID != appt.DoctorID {
		return nil, ForbiddenError{RequesterID: requesterID}
	}
	return appt, nil
}

// ListPatientAppointments returns a patient's appointments, newest first.
func (svc *DefaultAppointmentService) ListPatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return svc.Appointments.ListByPatient(ctx, patientID)
}

// ListDoctorUpcoming returns a doctor's future booked appointments.
func (svc *DefaultAppointmentService) ListDoctorUpcoming(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return svc.Appointments.ListUpcomingByDoctor(ctx, doctorID)
}

// ownedBookedAppointment loads an appointment and verifies the requester is
// one of its parties and that it is still booked.
func (svc *DefaultAppointmentService) ownedBookedAppointment(ctx context.Context, appointmentID, requesterID string) (*models.Appointment, error) {
	appt, err := svc.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, NotFoundError{Resource: "appointment", ID: appointmentID}
	}
	if requesterID != appt.PatientID && requesterID != appt.DoctorID {
		return nil, ForbiddenError{RequesterID: requesterID}
	}
	if appt.Status != models.AppointmentBooked {
		return nil, InvalidStateError{Status: appt.Status}
	}
	return appt, nil
}
