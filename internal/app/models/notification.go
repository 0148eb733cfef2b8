package models

import "time"

// NotificationType classifies a notification row
type NotificationType string

const (
	NotificationConnectionRequest  NotificationType = "connection_request"
	NotificationConnectionAccepted NotificationType = "connection_accepted"
	NotificationMessage            NotificationType = "message"
	NotificationSystem             NotificationType = "system"
)

// Notification is an in-app notification for one recipient
type Notification struct {
	ID        int64            `json:"id" db:"notification_id"`
	UserID    int64            `json:"userId" db:"user_id"`
	Type      NotificationType `json:"notificationType" db:"notification_type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	RelatedID *int64           `json:"relatedId,omitempty" db:"related_id"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
