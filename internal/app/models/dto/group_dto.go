package dto

import "time"

// CreateGroupRequest is the multipart form of POST /groups. member_ids may
// be repeated or given as a comma separated list; the avatar is optional.
type CreateGroupRequest struct {
	GroupName        string  `form:"group_name" json:"group_name" binding:"required,max=255"`
	GroupDescription string  `form:"group_description" json:"group_description"`
	MemberIDs        []int64 `form:"-" json:"member_ids"`
}

// AddGroupMembersRequest is the body of POST /groups/:id/members
type AddGroupMembersRequest struct {
	MemberIDs []int64 `json:"member_ids" binding:"required,min=1"`
}

// UpdateMemberRoleRequest is the body of PUT /groups/:id/members/:userId/role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,grouprole"`
}

// SendGroupMessageRequest is the multipart form of POST /groups/:id/messages
type SendGroupMessageRequest struct {
	MessageText string `form:"message_text" json:"message_text"`
}

// GroupResponse is the public view of a group
type GroupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"groupName"`
	Description *string   `json:"groupDescription,omitempty"`
	Avatar      *string   `json:"groupAvatar,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupSummaryResponse is one row of GET /groups
type GroupSummaryResponse struct {
	GroupResponse
	MyRole      string `json:"myRole"`
	MemberCount int    `json:"memberCount"`
	UnreadCount int    `json:"unreadCount"`
}

// GroupMemberResponse is one active member
type GroupMemberResponse struct {
	User     UserBasicResponse `json:"user"`
	Role     string            `json:"role"`
	JoinedAt time.Time         `json:"joinedAt"`
}

// GroupDetailResponse is the group with its active members
type GroupDetailResponse struct {
	GroupResponse
	MyRole  string                `json:"myRole"`
	Members []GroupMemberResponse `json:"members"`
}

// AddGroupMembersResponse lists the users that were actually added
type AddGroupMembersResponse struct {
	AddedUserIDs []int64 `json:"addedUserIds"`
}

// GroupMessageResponse is one group message
type GroupMessageResponse struct {
	ID             int64                `json:"id"`
	GroupID        int64                `json:"groupId"`
	SenderID       int64                `json:"senderId"`
	MessageText    string               `json:"messageText"`
	HasAttachments bool                 `json:"hasAttachments"`
	CreatedAt      time.Time            `json:"createdAt"`
	Attachments    []AttachmentResponse `json:"attachments"`
}

// GroupMessageListResponse is a page of group messages in chronological order
type GroupMessageListResponse struct {
	Messages   []GroupMessageResponse `json:"messages"`
	Pagination PaginationInfo         `json:"pagination"`
}
