package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"surq/internal/model"
	"surq/internal/repository"
)

// NotificationPusher delivers a freshly created notification to any live
// client connections. Delivery is best effort; the stored record is the
// source of truth.
type NotificationPusher interface {
	Push(userID string, notification *model.Notification)
}

// NotificationService creates and serves in-app notifications.
type NotificationService struct {
	notifRepo repository.NotificationRepo
	pusher    NotificationPusher
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifRepo repository.NotificationRepo) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// SetPusher sets the live-delivery sink (the websocket hub).
func (s *NotificationService) SetPusher(p NotificationPusher) {
	s.pusher = p
}

// Create stores a notification for the user and pushes it to live clients.
func (s *NotificationService) Create(ctx context.Context, notification *model.Notification) error {
	if _, err := s.notifRepo.Create(ctx, notification); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.Push(notification.UserID, notification)
	}
	log.Debug().
		Str("user_id", notification.UserID).
		Str("type", string(notification.Type)).
		Msg("notification created")
	return nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifRepo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifRepo.MarkAllRead(ctx, userID)
}
