package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	deviceRepo "medibook/database/repository/device"
	"medibook/utils"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Devices deviceRepo.DeviceTokenRepository
}

// SendPush looks up the user's FCM token and sends a push. Users without a
// registered token, or a deployment without Firebase configured, degrade to
// a log line rather than an error.
func (s *DefaultNotificationService) SendPush(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	logger := utils.GetLogger()

	token, err := s.Devices.GetToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendPush: could not look up token for user %s: %w", userID, err)
	}
	if token == "" || utils.FCMClient == nil {
		logger.Info("push delivery unavailable, logging notification instead",
			zap.String("userID", userID),
			zap.String("title", title),
			zap.String("body", body))
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message to user %s: %w", userID, err)
	}

	logger.Debug("push sent", zap.String("userID", userID), zap.String("response", response))
	return nil
}
