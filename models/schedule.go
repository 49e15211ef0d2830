package models

import "time"

// BookedSlot is one reserved entry in a day schedule. A booked time blocks
// the slot for every consultation type, so at most one entry may exist per
// distinct Time value.
type BookedSlot struct {
	Time          string    `bson:"time" json:"time"`                     // "HH:MM"
	Type          string    `bson:"type" json:"type"`                     // consultation type
	Fee           float64   `bson:"fee" json:"fee"`                       // fee captured at booking time
	AppointmentID string    `bson:"appointment_id" json:"appointmentId"`  // owning appointment (pre-generated)
	PatientID     string    `bson:"patient_id" json:"patientId"`          // booking patient
	BookedAt      time.Time `bson:"booked_at" json:"bookedAt"`
}

// DaySchedule is the per-(doctor, date) booking ledger. Date is a plain
// "YYYY-MM-DD" string so generation and lookup never drift across timezones.
type DaySchedule struct {
	DoctorID            string       `bson:"doctor_id" json:"doctorId"`
	Date                string       `bson:"date" json:"date"`
	SlotDurationMinutes int          `bson:"slot_duration_minutes" json:"slotDurationMinutes"`
	BaseSlotTimes       []string     `bson:"base_slot_times" json:"baseSlotTimes"`
	BookedSlots         []BookedSlot `bson:"booked_slots" json:"bookedSlots"`
	CreatedAt           time.Time    `bson:"created_at" json:"createdAt"`
}

// FreeSlotTimes returns the base slot times minus every booked time,
// preserving generation order.
func (ds *DaySchedule) FreeSlotTimes() []string {
	booked := make(map[string]struct{}, len(ds.BookedSlots))
	for _, bs := range ds.BookedSlots {
		booked[bs.Time] = struct{}{}
	}
	free := make([]string, 0, len(ds.BaseSlotTimes))
	for _, t := range ds.BaseSlotTimes {
		if _, taken := booked[t]; !taken {
			free = append(free, t)
		}
	}
	return free
}

// AvailableSlot is one bookable slot as returned to callers.
type AvailableSlot struct {
	Time    string  `json:"time"`
	EndTime string  `json:"endTime"`
	Type    string  `json:"type"`
	Fee     float64 `json:"fee"`
}

// DayAvailability is the availability response for one doctor and date.
type DayAvailability struct {
	DoctorID string          `json:"doctorId"`
	Date     string          `json:"date"`
	Type     string          `json:"type,omitempty"`
	Slots    []AvailableSlot `json:"slots"`
}
