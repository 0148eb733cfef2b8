package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
)

// INotificationRepository persists in-app notifications
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	// MarkRead and Delete only touch rows owned by userID
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	DeleteAll(ctx context.Context, userID int64, readOnly bool) (int64, error)
}

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var notificationColumns = []string{
	"notification_id", "user_id", "notification_type", "title", "message",
	"related_id", "is_read", "created_at",
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	var typ string
	if err := row.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(typ)
	return &n, nil
}

// Create inserts n and fills in its id and created_at
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	err := queryRowBuilder(ctx, r.db, psql.Insert("notifications").
		Columns("user_id", "notification_type", "title", "message", "related_id").
		Values(n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID).
		Suffix("RETURNING notification_id, created_at"),
		&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func notificationFilter(userID int64, unreadOnly bool) squirrel.Eq {
	where := squirrel.Eq{"user_id": userID}
	if unreadOnly {
		where["is_read"] = false
	}
	return where
}

// List pages through a user's notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]*models.Notification, int64, error) {
	where := notificationFilter(userID, unreadOnly)

	var total int64
	if err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").From("notifications").Where(where), &total); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	rows, err := queryBuilder(ctx, r.db, psql.Select(notificationColumns...).
		From("notifications").
		Where(where).
		OrderBy("created_at DESC", "notification_id DESC").
		Limit(limit).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// CountUnread counts the unread notifications of userID
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").
		From("notifications").
		Where(notificationFilter(userID, true)), &n); err != nil {
		return 0, fmt.Errorf("error counting notifications: %w", err)
	}
	return n, nil
}

// MarkRead reports false when the notification does not belong to userID
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	n, err := execBuilder(ctx, r.db, psql.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"notification_id": id, "user_id": userID}))
	return n > 0, err
}

// MarkAllRead returns the number of notifications flipped to read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return execBuilder(ctx, r.db, psql.Update("notifications").
		Set("is_read", true).
		Where(notificationFilter(userID, true)))
}

// Delete reports false when the notification does not belong to userID
func (r *NotificationRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	n, err := execBuilder(ctx, r.db, psql.Delete("notifications").
		Where(squirrel.Eq{"notification_id": id, "user_id": userID}))
	return n > 0, err
}

func deleteAllQuery(userID int64, readOnly bool) squirrel.DeleteBuilder {
	q := psql.Delete("notifications").Where(squirrel.Eq{"user_id": userID})
	if readOnly {
		q = q.Where(squirrel.Eq{"is_read": true})
	}
	return q
}

// DeleteAll removes every notification of userID, or only the read ones
func (r *NotificationRepository) DeleteAll(ctx context.Context, userID int64, readOnly bool) (int64, error) {
	return execBuilder(ctx, r.db, deleteAllQuery(userID, readOnly))
}
