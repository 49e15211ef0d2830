package models

// AvailabilityWindow is a doctor's daily working-hours window. Times are
// "HH:MM" in 24-hour format. A window with To <= From yields no slots.
type AvailabilityWindow struct {
	From string `bson:"from" json:"from"`
	To   string `bson:"to" json:"to"`
}

// ConsultationFees holds the per-modality fee schedule. In-person visits
// are billed at the video rate.
type ConsultationFees struct {
	Chat  float64 `bson:"chat" json:"chat"`
	Voice float64 `bson:"voice" json:"voice"`
	Video float64 `bson:"video" json:"video"`
}

// Doctor is the provider profile as read by the scheduling subsystem.
// Profile management itself lives outside this service.
type Doctor struct {
	ID                  string             `bson:"id" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email,omitempty"`
	Phone               string             `bson:"phone" json:"phone,omitempty"`
	Specialization      string             `bson:"specialization" json:"specialization"`
	Experience          int                `bson:"experience" json:"experience"`
	Qualifications      []string           `bson:"qualifications,omitempty" json:"qualifications,omitempty"`
	Languages           []string           `bson:"languages,omitempty" json:"languages,omitempty"`
	ConsultationFee     ConsultationFees   `bson:"consultationFee" json:"consultationFee"`
	Availability        AvailabilityWindow `bson:"availability" json:"availability"`
	SlotDurationMinutes int                `bson:"slotDurationMinutes,omitempty" json:"slotDurationMinutes,omitempty"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
	Rating              float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	TotalReviews        int                `bson:"totalReviews,omitempty" json:"totalReviews,omitempty"`
	ProfileImage        string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Bio                 string             `bson:"bio,omitempty" json:"bio,omitempty"`
	FCMToken            string             `bson:"fcmToken,omitempty" json:"-"`
}

// FeeFor returns the booking-time fee for a consultation type.
func (d *Doctor) FeeFor(consultationType string) float64 {
	switch consultationType {
	case ConsultationChat:
		return d.ConsultationFee.Chat
	case ConsultationVoice:
		return d.ConsultationFee.Voice
	case ConsultationVideo, ConsultationInPerson:
		return d.ConsultationFee.Video
	default:
		return 0
	}
}

// DoctorSearchFilter carries the optional doctor search criteria.
type DoctorSearchFilter struct {
	Specialization string
	MinFee         float64
	MaxFee         float64
	Verified       *bool
}
