package scheduling

import (
	"context"

	"github.com/go-redis/redis/v8"

	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/tasks"
)

// BookSlotRequest carries the inputs for a booking attempt.
type BookSlotRequest struct {
	PatientID string
	DoctorID  string
	Date      string // "YYYY-MM-DD"
	Time      string // "HH:MM"
	Type      string // consultation type
	Notes     string
}

// AppointmentService is the scheduling subsystem's entry point: availability
// queries, atomic slot booking, and the appointment lifecycle operations.
type AppointmentService interface {
	// GetAvailability returns the free slots for a doctor on a date,
	// optionally shaped to one consultation type. A booked time is absent
	// from the result regardless of which type booked it.
	GetAvailability(ctx context.Context, doctorID, date, consultationType string) (*models.DayAvailability, error)

	// BookSlot atomically reserves the requested slot and creates the
	// appointment record. Exactly one of any set of concurrent calls for
	// the same (doctor, date, time) succeeds.
	BookSlot(ctx context.Context, req BookSlotRequest) (*models.Appointment, error)

	// CancelAppointment cancels a booked appointment on behalf of one of
	// its parties and releases the underlying slot.
	CancelAppointment(ctx context.Context, appointmentID, requesterID, reason string) (*models.Appointment, error)

	// RescheduleAppointment moves a booked appointment to a new date and
	// time, reserving the new slot before releasing the old one. On
	// conflict the original booking is left untouched.
	RescheduleAppointment(ctx context.Context, appointmentID, requesterID, newDate, newTime string) (*models.Appointment, error)

	// CompleteAppointment marks a booked appointment completed; only the
	// appointment's doctor may do this.
	CompleteAppointment(ctx context.Context, appointmentID, requesterID string) (*models.Appointment, error)

	// GetAppointment returns a single appointment visible to one of its
	// parties.
	GetAppointment(ctx context.Context, appointmentID, requesterID string) (*models.Appointment, error)

	// ListPatientAppointments returns a patient's appointments, newest
	// first.
	ListPatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error)

	// ListDoctorUpcoming returns a doctor's future booked appointments,
	// soonest first.
	ListDoctorUpcoming(ctx context.Context, doctorID string) ([]models.Appointment, error)
}

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Doctors      doctorRepo.DoctorRepository
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Cache        *redis.Client
	Reminders    tasks.ReminderScheduler
}
