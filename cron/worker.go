package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/config"
	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/services/notification"
	"medibook/services/tasks"
	"medibook/utils"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, handleReminderTask(appts, notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask fires a push for an appointment that is still booked.
// Reminders enqueued before a cancel or reschedule become no-ops here
// instead of being chased down at mutation time.
func handleReminderTask(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder task has invalid payload", zap.Error(err))
			return err
		}

		appt, err := appts.GetByID(ctx, p.AppointmentID)
		if err != nil {
			return err
		}
		if appt == nil || appt.Status != models.AppointmentBooked {
			logger.Debug("skipping reminder for inactive appointment",
				zap.String("appointmentID", p.AppointmentID))
			return nil
		}
		if appt.Date != p.Date || appt.StartTime != p.StartTime {
			// The appointment moved after this reminder was enqueued; the
			// reschedule enqueued a fresh one.
			return nil
		}

		data := map[string]string{
			"appointmentId": appt.ID,
			"date":          appt.Date,
			"startTime":     appt.StartTime,
			"type":          appt.Type,
		}
		if err := notifSvc.SendPush(ctx, appt.PatientID, p.Title, p.Body, data); err != nil {
			logger.Warn("failed to deliver reminder",
				zap.String("appointmentID", appt.ID),
				zap.Error(err))
			return err
		}
		return nil
	}
}
