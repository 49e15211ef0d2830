package appointmentRepo

import (
	"context"

	"medibook/models"
)

// AppointmentRepository is the data access contract for appointment records.
type AppointmentRepository interface {
	// Create persists a new appointment. The record's ID is supplied by the
	// caller, pre-generated before the matching slot was reserved.
	Create(ctx context.Context, appt *models.Appointment) error

	// GetByID returns the appointment, or nil when none exists.
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)

	// Update replaces the stored record's mutable fields.
	Update(ctx context.Context, appt *models.Appointment) error

	// ListByPatient returns a patient's appointments, newest first.
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)

	// ListUpcomingByDoctor returns a doctor's future booked appointments,
	// soonest first.
	ListUpcomingByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}
