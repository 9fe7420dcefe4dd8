package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/internal/repository"
)

// NotificationSink is the best-effort side-channel the scheduling engine
// uses to tell interested users about executed actions. Implementations
// own their retry semantics; callers swallow delivery failures.
type NotificationSink interface {
	Notify(ctx context.Context, recipientID, category, title, message string,
		priority domain.NotificationPriority, data map[string]string) error
}

// NotificationService default sink: persists in-app notification rows.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify records an in-app notification for the recipient
func (s *NotificationService) Notify(ctx context.Context, recipientID, category, title, message string,
	priority domain.NotificationPriority, data map[string]string) error {
	if priority == "" {
		priority = domain.NotificationPriorityNormal
	}
	return s.repo.Create(ctx, &domain.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Category:    category,
		Title:       title,
		Message:     message,
		Priority:    priority,
		Data:        data,
	})
}

// GetList returns paginated notifications for a recipient
func (s *NotificationService) GetList(ctx context.Context, recipientID string, limit, offset int) ([]*domain.Notification, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}

// MarkAsRead marks a notification as read for its recipient
func (s *NotificationService) MarkAsRead(ctx context.Context, id, recipientID string) error {
	return s.repo.MarkAsRead(ctx, id, recipientID)
}
