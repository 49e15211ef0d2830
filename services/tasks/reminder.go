package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

const TypeAppointmentReminder = "appointment:reminder"

// NewReminderTask builds the asynq task for an appointment reminder,
// scheduled to fire at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler enqueues appointment reminders.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, appt *models.Appointment) error
}

// AsynqReminderScheduler schedules reminders on the asynq queue.
type AsynqReminderScheduler struct {
	Client   *asynq.Client
	LeadTime time.Duration
}

// ScheduleAppointmentReminder enqueues a reminder ahead of the appointment
// start. Appointments too close to start simply get no reminder. The worker
// re-checks appointment status at fire time, so a reminder for a booking
// that is later cancelled or rescheduled becomes a no-op.
func (s *AsynqReminderScheduler) ScheduleAppointmentReminder(ctx context.Context, appt *models.Appointment) error {
	fireAt := appt.ScheduledAt.Add(-s.LeadTime)
	if !fireAt.After(time.Now().UTC()) {
		utils.GetLogger().Debug("skipping reminder for imminent appointment",
			zap.String("appointmentID", appt.ID))
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Date:          appt.Date,
		StartTime:     appt.StartTime,
		Title:         "Upcoming consultation",
		Body:          fmt.Sprintf("Your %s consultation starts at %s on %s.", appt.Type, appt.StartTime, appt.Date),
		FireDate:      fireAt.Format(time.RFC3339),
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder for appointment %s: %w", appt.ID, err)
	}
	return nil
}
