package models

import "time"

// Consultation types. Every type contends for the same time-of-day resource:
// a doctor cannot hold two consultations at once regardless of modality.
const (
	ConsultationChat     = "chat"
	ConsultationVoice    = "voice"
	ConsultationVideo    = "video"
	ConsultationInPerson = "in-person"
)

// Appointment lifecycle statuses.
const (
	AppointmentBooked    = "booked"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentWaived  = "waived"
)

// IsValidConsultationType reports whether t is one of the supported types.
func IsValidConsultationType(t string) bool {
	switch t {
	case ConsultationChat, ConsultationVoice, ConsultationVideo, ConsultationInPerson:
		return true
	}
	return false
}

// Appointment represents one booking's lifecycle. Its ID is pre-generated
// and embedded in the day schedule's booked slot before this record exists,
// so the two writes always share one identifier.
type Appointment struct {
	ID            string     `bson:"id" json:"id"`
	PatientID     string     `bson:"patient_id" json:"patientId"`
	DoctorID      string     `bson:"doctor_id" json:"doctorId"`
	Type          string     `bson:"type" json:"type"`
	ScheduledAt   time.Time  `bson:"scheduled_at" json:"scheduledAt"` // derived server-side from date+time, UTC
	Date          string     `bson:"date" json:"date"`                // "YYYY-MM-DD"
	StartTime     string     `bson:"start_time" json:"startTime"`     // "HH:MM"
	EndTime       string     `bson:"end_time" json:"endTime"`         // start + slot duration
	Fee           float64    `bson:"fee" json:"fee"`
	Status        string     `bson:"status" json:"status"`
	PaymentStatus string     `bson:"payment_status" json:"paymentStatus"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CancelledAt   *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancelReason  string     `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updatedAt"`
}

// ReminderPayload is the asynq task payload for appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	PatientID     string `json:"patientId"`
	DoctorID      string `json:"doctorId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}
