package models

import "time"

// GroupRole is a member's role inside a group chat
type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// IsValid reports whether r is a known group role
func (r GroupRole) IsValid() bool {
	return r == GroupRoleAdmin || r == GroupRoleMember
}

// GroupChat is a named conversation between the creator and their connections
type GroupChat struct {
	ID          int64     `json:"id" db:"group_id"`
	Name        string    `json:"groupName" db:"group_name"`
	Description *string   `json:"groupDescription,omitempty" db:"group_description"`
	Avatar      *string   `json:"groupAvatar,omitempty" db:"group_avatar"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// GroupMember is the (group, user) membership row. Leaving or removal
// clears IsActive; the row is reused when the user is added again.
type GroupMember struct {
	GroupID    int64     `json:"groupId" db:"group_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Role       GroupRole `json:"role" db:"role"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	JoinedAt   time.Time `json:"joinedAt" db:"joined_at"`
	LastReadAt time.Time `json:"lastReadAt" db:"last_read_at"`
	User       *User     `json:"user,omitempty"`
}

// GroupSummary is a group as listed for one member
type GroupSummary struct {
	Group       *GroupChat `json:"group"`
	Role        GroupRole  `json:"role"`
	MemberCount int        `json:"memberCount"`
	UnreadCount int        `json:"unreadCount"`
}

// GroupMessage is a message posted into a group chat
type GroupMessage struct {
	ID               int64         `json:"id" db:"message_id"`
	GroupID          int64         `json:"groupId" db:"group_id"`
	SenderID         int64         `json:"senderId" db:"sender_id"`
	Text             string        `json:"messageText" db:"message_text"`
	HasAttachments   bool          `json:"hasAttachments" db:"has_attachments"`
	DeletedBySender  bool          `json:"-" db:"deleted_by_sender"`
	DeletedByMembers []int64       `json:"-" db:"deleted_by_members"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	Attachments      []*Attachment `json:"attachments,omitempty"`
}

// HiddenFor reports whether the message was deleted-for-self by userID
func (m *GroupMessage) HiddenFor(userID int64) bool {
	if m.SenderID == userID && m.DeletedBySender {
		return true
	}
	for _, id := range m.DeletedByMembers {
		if id == userID {
			return true
		}
	}
	return false
}
