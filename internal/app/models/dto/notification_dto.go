package dto

import "time"

// NotificationResponse is one in-app notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"notificationType" example:"connection_request"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID *int64    `json:"relatedId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse is a page of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// AffectedResponse reports how many rows an update or delete touched
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}
