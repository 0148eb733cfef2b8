package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// NotifyInput describes one in-app notification
type NotifyInput struct {
	UserID    int64
	Type      models.NotificationType
	Title     string
	Message   string
	RelatedID *int64
}

// Notifier emits side effects that must never fail the operation that
// triggered them. Both methods log failures and return nothing.
type Notifier interface {
	Notify(ctx context.Context, in NotifyInput)
	Email(ctx context.Context, to, template string, data map[string]interface{})
}

// NotificationService is the notifier plus the recipient-facing read API
type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, p models.Principal, unreadOnly bool, page helpers.Page) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, p models.Principal) (int64, error)
	MarkAsRead(ctx context.Context, p models.Principal, id int64) error
	MarkAllAsRead(ctx context.Context, p models.Principal) (int64, error)
	DeleteNotification(ctx context.Context, p models.Principal, id int64) error
	DeleteAllNotifications(ctx context.Context, p models.Principal, readOnly bool) (int64, error)
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	notificationRepo repositories.INotificationRepository
	emailService     email.EmailService
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.INotificationRepository,
	emailService email.EmailService,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

func relatedID(id int64) *int64 {
	return &id
}

// Notify stores an in-app notification
func (s *notificationServiceImpl) Notify(ctx context.Context, in NotifyInput) {
	n := &models.Notification{
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		RelatedID: in.RelatedID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).
			Int64("userID", in.UserID).
			Str("type", string(in.Type)).
			Msg("Failed to create notification")
	}
}

// Email sends a templated mail when an email service is configured
func (s *notificationServiceImpl) Email(ctx context.Context, to, template string, data map[string]interface{}) {
	if s.emailService == nil || to == "" {
		return
	}
	if err := s.emailService.Send(ctx, to, template, data); err != nil {
		s.logger.Warn().Err(err).
			Str("to", to).
			Str("template", template).
			Msg("Failed to send notification email")
	}
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotifications returns a page of the caller's notifications
func (s *notificationServiceImpl) GetNotifications(ctx context.Context, p models.Principal, unreadOnly bool, page helpers.Page) (*dto.NotificationListResponse, error) {
	if err := auth.RequirePeer(p); err != nil {
		return nil, err
	}

	items, total, err := s.notificationRepo.List(ctx, p.ID, unreadOnly, page.Limit(), page.Offset())
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", p.ID).Msg("Failed to list notifications")
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(items)),
		UnreadCount:   unread,
		Pagination:    helpers.NewPaginationInfo(total, page.Number, page.Size),
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}
	return resp, nil
}

// GetUnreadCount counts the caller's unread notifications
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, p models.Principal) (int64, error) {
	if err := auth.RequirePeer(p); err != nil {
		return 0, err
	}
	return s.notificationRepo.CountUnread(ctx, p.ID)
}

// MarkAsRead marks one of the caller's notifications as read
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, p models.Principal, id int64) error {
	if err := auth.RequirePeer(p); err != nil {
		return err
	}
	ok, err := s.notificationRepo.MarkRead(ctx, p.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("notification not found")
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the caller as read
func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, p models.Principal) (int64, error) {
	if err := auth.RequirePeer(p); err != nil {
		return 0, err
	}
	return s.notificationRepo.MarkAllRead(ctx, p.ID)
}

// DeleteNotification removes one of the caller's notifications
func (s *notificationServiceImpl) DeleteNotification(ctx context.Context, p models.Principal, id int64) error {
	if err := auth.RequirePeer(p); err != nil {
		return err
	}
	ok, err := s.notificationRepo.Delete(ctx, p.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("notification not found")
	}
	return nil
}

// DeleteAllNotifications clears the caller's notifications
func (s *notificationServiceImpl) DeleteAllNotifications(ctx context.Context, p models.Principal, readOnly bool) (int64, error) {
	if err := auth.RequirePeer(p); err != nil {
		return 0, err
	}
	return s.notificationRepo.DeleteAll(ctx, p.ID, readOnly)
}
