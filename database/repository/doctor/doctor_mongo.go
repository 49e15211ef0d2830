package doctorRepo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	doctorColl *mongo.Collection
}

// NewMongoDoctorRepo constructs a new instance of MongoDoctorRepo.
func NewMongoDoctorRepo() DoctorRepository {
	return &MongoDoctorRepo{
		doctorColl: database.DB().Collection("doctors"),
	}
}

// GetByID retrieves a doctor profile; a missing record yields (nil, nil).
func (repo *MongoDoctorRepo) GetByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doctor models.Doctor
	err := repo.doctorColl.FindOne(ctx, bson.M{"id": doctorID}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching doctor %s: %w", doctorID, err)
	}
	return &doctor, nil
}

// Search filters doctors by specialization and verification in the query.
// Fee-range filtering happens after the read because fees are per-modality
// and "any matching fee" cannot be expressed as a flat field predicate.
func (repo *MongoDoctorRepo) Search(ctx context.Context, filter models.DoctorSearchFilter) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Specialization != "" {
		pattern := fmt.Sprintf("^%s$", regexp.QuoteMeta(filter.Specialization))
		query["specialization"] = bson.M{"$regex": pattern, "$options": "i"}
	}
	if filter.Verified != nil {
		query["isVerified"] = *filter.Verified
	}

	cursor, err := repo.doctorColl.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("error decoding doctor search results: %w", err)
	}

	if filter.MinFee == 0 && filter.MaxFee == 0 {
		return doctors, nil
	}

	min := filter.MinFee
	max := filter.MaxFee
	if max == 0 {
		max = math.MaxFloat64
	}

	matched := doctors[:0]
	for _, d := range doctors {
		fees := []float64{d.ConsultationFee.Chat, d.ConsultationFee.Voice, d.ConsultationFee.Video}
		for _, f := range fees {
			if f >= min && f <= max {
				matched = append(matched, d)
				break
			}
		}
	}
	return matched, nil
}
