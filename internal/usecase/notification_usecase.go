package usecase

import (
	"context"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/apperror"
)

type notificationUsecase struct {
	notifications domain.NotificationRepository
}

// NewNotificationUsecase creates the in-app notification reader
func NewNotificationUsecase(notifications domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{notifications: notifications}
}

// ListMyNotifications returns the recipient's newest in-app notifications
func (uc *notificationUsecase) ListMyNotifications(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	if recipientID == "" {
		return nil, apperror.Unauthorized("Not authenticated")
	}
	notifications, err := uc.notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notifications, nil
}
