package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"medibook/database"
	"medibook/models"
	"medibook/utils"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	scheduleColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() ScheduleRepository {
	repo := &MongoScheduleRepo{
		scheduleColl: database.DB().Collection("day_schedules"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("day schedule index creation failed", zap.Error(err))
	}
	return repo
}

// EnsureDaySchedule upserts the (doctorID, date) record with $setOnInsert so
// that only the first concurrent creator writes the generated base slot
// list; every later caller no-ops and re-reads the winner's record.
func (repo *MongoScheduleRepo) EnsureDaySchedule(ctx context.Context, doctorID, date string, baseSlotTimes []string, slotDurationMinutes int) (*models.DaySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor_id": doctorID, "date": date}
	update := bson.M{
		"$setOnInsert": bson.M{
			"doctor_id":             doctorID,
			"date":                  date,
			"slot_duration_minutes": slotDurationMinutes,
			"base_slot_times":       baseSlotTimes,
			"booked_slots":          []models.BookedSlot{},
			"created_at":            time.Now().UTC(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := repo.scheduleColl.UpdateOne(ctx, filter, update, opts); err != nil {
		// A duplicate-key race between two upserts is benign: the loser
		// still finds the winner's record on the read below.
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("error ensuring day schedule for doctor %s on %s: %w", doctorID, date, err)
		}
	}

	var schedule models.DaySchedule
	if err := repo.scheduleColl.FindOne(ctx, filter).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("error reading day schedule for doctor %s on %s: %w", doctorID, date, err)
	}
	return &schedule, nil
}

// GetDaySchedule retrieves a day schedule; a missing record yields (nil, nil).
func (repo *MongoScheduleRepo) GetDaySchedule(ctx context.Context, doctorID, date string) (*models.DaySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.DaySchedule
	filter := bson.M{"doctor_id": doctorID, "date": date}
	err := repo.scheduleColl.FindOne(ctx, filter).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching day schedule for doctor %s on %s: %w", doctorID, date, err)
	}
	return &schedule, nil
}

// ReserveSlot performs the conditional append in a single UpdateOne: the
// filter matches the schedule document only while booked_slots holds no
// entry with the requested time, and the update pushes the new entry. The
// precondition and the mutation therefore apply atomically; there is no
// separate read-then-write window.
func (repo *MongoScheduleRepo) ReserveSlot(ctx context.Context, doctorID, date string, entry models.BookedSlot) (ReserveOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctor_id": doctorID,
		"date":      date,
		"booked_slots": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{"time": entry.Time},
			},
		},
	}
	update := bson.M{
		"$push": bson.M{"booked_slots": entry},
	}

	res, err := repo.scheduleColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return Conflict, fmt.Errorf("error reserving slot %s for doctor %s on %s: %w", entry.Time, doctorID, date, err)
	}
	if res.MatchedCount > 0 {
		return Reserved, nil
	}

	// No match: either the schedule is absent or the time is already held.
	exists, err := repo.scheduleExists(ctx, doctorID, date)
	if err != nil {
		return Conflict, err
	}
	if !exists {
		return ScheduleMissing, nil
	}
	return Conflict, nil
}

// ReleaseSlot pulls the booked entry for the given time. The removal is
// unconditional: callers only invoke it when they own the corresponding
// appointment or are rolling back their own reservation.
func (repo *MongoScheduleRepo) ReleaseSlot(ctx context.Context, doctorID, date, slotTime string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor_id": doctorID, "date": date}
	update := bson.M{
		"$pull": bson.M{"booked_slots": bson.M{"time": slotTime}},
	}

	if _, err := repo.scheduleColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error releasing slot %s for doctor %s on %s: %w", slotTime, doctorID, date, err)
	}
	return nil
}

func (repo *MongoScheduleRepo) scheduleExists(ctx context.Context, doctorID, date string) (bool, error) {
	count, err := repo.scheduleColl.CountDocuments(ctx, bson.M{"doctor_id": doctorID, "date": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking day schedule for doctor %s on %s: %w", doctorID, date, err)
	}
	return count > 0, nil
}
