package dto

import "time"

// SendMessageRequest is the multipart form of POST /messages/send. Files
// arrive separately under the "attachments" key.
type SendMessageRequest struct {
	ReceiverID  int64  `form:"receiver_id" json:"receiver_id" binding:"required,gt=0"`
	MessageText string `form:"message_text" json:"message_text"`
}

// DeleteMessageQuery selects who a deletion applies to; self when omitted
type DeleteMessageQuery struct {
	DeleteFor string `form:"delete_for" binding:"omitempty,deletescope"`
}

// Scope returns the requested scope, defaulting to self
func (q DeleteMessageQuery) Scope() string {
	if q.DeleteFor == "" {
		return "self"
	}
	return q.DeleteFor
}

// AttachmentResponse describes a stored attachment
type AttachmentResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType" example:"image"`
	MimeType string `json:"mimeType" example:"image/png"`
	FileSize int64  `json:"fileSize"`
}

// MessageResponse is one direct message
type MessageResponse struct {
	ID             int64                `json:"id"`
	SenderID       int64                `json:"senderId"`
	ReceiverID     int64                `json:"receiverId"`
	MessageText    string               `json:"messageText"`
	HasAttachments bool                 `json:"hasAttachments"`
	IsRead         bool                 `json:"isRead"`
	CreatedAt      time.Time            `json:"createdAt"`
	Attachments    []AttachmentResponse `json:"attachments"`
}

// ConversationResponse is the message history with one partner
type ConversationResponse struct {
	Partner  UserBasicResponse `json:"partner"`
	Messages []MessageResponse `json:"messages"`
}

// ConversationSummaryResponse is one row of the conversations list
type ConversationSummaryResponse struct {
	Partner       UserBasicResponse `json:"partner"`
	LastMessageID int64             `json:"lastMessageId"`
	LastMessage   string            `json:"lastMessage"`
	LastSenderID  int64             `json:"lastSenderId"`
	LastMessageAt time.Time         `json:"lastMessageAt"`
	UnreadCount   int               `json:"unreadCount"`
}

// UnreadCountResponse carries a single unread counter
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}
