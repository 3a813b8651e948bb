package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyEnrolled creates one notification record per ACTIVE enrollment in
// the course, then broadcasts a bulk-notification event.
func (s *notificationService) NotifyEnrolled(ctx context.Context, courseID uint, title, content string, kind models.NotificationType) error {
	enrollments, err := s.repo.Enrollment().ListActiveByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil
	}

	notifications := make([]*models.Notification, 0, len(enrollments))
	userIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		notifications = append(notifications, &models.Notification{
			UserID:  enrollment.UserID,
			Title:   title,
			Content: content,
			Type:    kind,
		})
		userIDs = append(userIDs, enrollment.UserID)
	}

	if err := s.repo.Notification().CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeBulkNotification, map[string]interface{}{
		"courseId": courseID,
		"userIds":  userIDs,
		"title":    title,
		"type":     kind,
	})); err != nil {
		s.logger.Warn("failed to publish bulk notification event", "error", err)
	}

	s.logger.Info("notification fan-out complete", "course_id", courseID, "recipients", len(notifications), "type", kind)
	return nil
}

func (s *notificationService) ListByUser(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*models.Notification, error) {
	return s.repo.Notification().ListByUser(ctx, userID, filters)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) error {
	if err := s.repo.Notification().MarkRead(ctx, id, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
