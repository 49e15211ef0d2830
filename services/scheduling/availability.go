package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medibook/config"
	"medibook/models"
	"medibook/utils"
)

var consultationTypes = []string{
	models.ConsultationChat,
	models.ConsultationVoice,
	models.ConsultationVideo,
	models.ConsultationInPerson,
}

// GetAvailability computes the bookable slots for a doctor on a date: the
// generated base times minus every booked time. Responses are cached in
// Redis for a short TTL and invalidated whenever the day's ledger mutates.
func (svc *DefaultAppointmentService) GetAvailability(ctx context.Context, doctorID, date, consultationType string) (*models.DayAvailability, error) {
	if !IsValidDate(date) {
		return nil, ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if consultationType != "" && !models.IsValidConsultationType(consultationType) {
		return nil, ValidationError{Field: "type", Reason: "unknown consultation type"}
	}

	if cached := svc.cachedAvailability(ctx, doctorID, date, consultationType); cached != nil {
		return cached, nil
	}

	doctor, err := svc.Doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, NotFoundError{Resource: "doctor", ID: doctorID}
	}

	schedule, err := svc.ensureDaySchedule(ctx, doctor, date)
	if err != nil {
		return nil, err
	}

	types := consultationTypes
	if consultationType != "" {
		types = []string{consultationType}
	}

	free := schedule.FreeSlotTimes()
	slots := make([]models.AvailableSlot, 0, len(free)*len(types))
	for _, t := range free {
		for _, ct := range types {
			slots = append(slots, models.AvailableSlot{
				Time:    t,
				EndTime: SlotEndTime(t, schedule.SlotDurationMinutes),
				Type:    ct,
				Fee:     doctor.FeeFor(ct),
			})
		}
	}

	result := &models.DayAvailability{
		DoctorID: doctorID,
		Date:     date,
		Type:     consultationType,
		Slots:    slots,
	}
	svc.storeAvailability(ctx, result)
	return result, nil
}

func availabilityCacheKey(doctorID, date, consultationType string) string {
	return fmt.Sprintf("avail:%s:%s:%s", doctorID, date, consultationType)
}

func (svc *DefaultAppointmentService) cachedAvailability(ctx context.Context, doctorID, date, consultationType string) *models.DayAvailability {
	if svc.Cache == nil {
		return nil
	}
	data, err := svc.Cache.Get(ctx, availabilityCacheKey(doctorID, date, consultationType)).Result()
	if err != nil {
		return nil
	}
	var result models.DayAvailability
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil
	}
	return &result
}

func (svc *DefaultAppointmentService) storeAvailability(ctx context.Context, result *models.DayAvailability) {
	if svc.Cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	key := availabilityCacheKey(result.DoctorID, result.Date, result.Type)
	if err := svc.Cache.Set(ctx, key, data, ttl).Err(); err != nil {
		utils.GetLogger().Debug("availability cache store failed", zap.Error(err))
	}
}

// invalidateAvailability drops every cached availability variant for the
// (doctor, date) pair after the day's ledger changes.
func (svc *DefaultAppointmentService) invalidateAvailability(ctx context.Context, doctorID, date string) {
	if svc.Cache == nil {
		return
	}
	keys := []string{availabilityCacheKey(doctorID, date, "")}
	for _, ct := range consultationTypes {
		keys = append(keys, availabilityCacheKey(doctorID, date, ct))
	}
	if err := svc.Cache.Del(ctx, keys...).Err(); err != nil {
		utils.GetLogger().Debug("availability cache invalidation failed",
			zap.String("doctorID", doctorID),
			zap.String("date", date),
			zap.Error(err))
	}
}
