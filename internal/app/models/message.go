package models

import (
	"strings"
	"time"
)

// FileCategory is the coarse attachment type derived from its MIME type
type FileCategory string

const (
	FileImage    FileCategory = "image"
	FileVideo    FileCategory = "video"
	FileAudio    FileCategory = "audio"
	FileDocument FileCategory = "document"
)

// CategoryForMIME maps a MIME type to its FileCategory
func CategoryForMIME(mimeType string) FileCategory {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FileImage
	case strings.HasPrefix(mt, "video/"):
		return FileVideo
	case strings.HasPrefix(mt, "audio/"):
		return FileAudio
	default:
		return FileDocument
	}
}

// DeleteScope selects who a deletion applies to
type DeleteScope string

const (
	DeleteForSelf     DeleteScope = "self"
	DeleteForEveryone DeleteScope = "everyone"
)

// Message is a direct message between two parties
type Message struct {
	ID                 int64         `json:"id" db:"message_id"`
	SenderID           int64         `json:"senderId" db:"sender_id"`
	ReceiverID         int64         `json:"receiverId" db:"receiver_id"`
	Text               string        `json:"messageText" db:"message_text"`
	HasAttachments     bool          `json:"hasAttachments" db:"has_attachments"`
	IsRead             bool          `json:"isRead" db:"is_read"`
	DeletedForSender   bool          `json:"-" db:"deleted_for_sender"`
	DeletedForReceiver bool          `json:"-" db:"deleted_for_receiver"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	Attachments        []*Attachment `json:"attachments,omitempty"`
}

// Attachment is a stored file referenced by a direct or group message
type Attachment struct {
	ID        int64        `json:"id" db:"attachment_id"`
	MessageID int64        `json:"messageId" db:"message_id"`
	FileName  string       `json:"fileName" db:"file_name"`
	FilePath  string       `json:"-" db:"file_path"`
	FileURL   string       `json:"fileUrl" db:"file_url"`
	FileType  FileCategory `json:"fileType" db:"file_type"`
	MimeType  string       `json:"mimeType" db:"mime_type"`
	FileSize  int64        `json:"fileSize" db:"file_size"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}

// Conversation summarises the latest exchange with one partner
type Conversation struct {
	PartnerID     int64     `json:"partnerId"`
	LastMessageID int64     `json:"lastMessageId"`
	LastText      string    `json:"lastMessageText"`
	LastSenderID  int64     `json:"lastSenderId"`
	LastAt        time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}
