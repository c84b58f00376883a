package service

import (
	"context"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// NotificationService is the in-app notification sink and inbox
type NotificationService interface {
	port.NotificationSink

	List(ctx context.Context, userID int64, page, size int) (*entity.Page[*entity.Notification], error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationServiceImpl struct {
	notificationRepo port.NotificationRepository
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo port.NotificationRepository, logger Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, n *entity.Notification) error {
	if n.UserID == 0 {
		return apperr.ValidationField("user_id", "notification recipient is required")
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to store notification", "user_id", n.UserID, "type", n.Type, "error", err)
		return err
	}
	s.logger.Info("Notification stored", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
	return nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID int64, page, size int) (*entity.Page[*entity.Notification], error) {
	f := entity.JobFilter{Page: page, Size: size}
	f.Normalize()

	items, total, err := s.notificationRepo.ListByUser(ctx, userID, f.Size, f.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Notification{}
	}
	return &entity.Page[*entity.Notification]{Items: items, Total: total, Page: f.Page, Size: f.Size}, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead reports not_found for notifications owned by someone else
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("notification %d not found", notificationID)
	}
	return nil
}
