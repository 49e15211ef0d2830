package doctorRepo

import (
	"context"

	"medibook/models"
)

// DoctorRepository is the read-side contract for doctor profiles. Profile
// management (registration, credentials) is handled by a separate system;
// the scheduling service only consumes availability, fees and public data.
type DoctorRepository interface {
	// GetByID returns the doctor, or nil when none exists.
	GetByID(ctx context.Context, doctorID string) (*models.Doctor, error)

	// Search returns doctors matching the optional filter criteria.
	Search(ctx context.Context, filter models.DoctorSearchFilter) ([]models.Doctor, error)
}
