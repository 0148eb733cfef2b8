package dto

import "time"

// SendConnectionRequest is the body of POST /connections/send
type SendConnectionRequest struct {
	ReceiverID int64 `json:"receiver_id" binding:"required,gt=0"`
}

// RespondConnectionRequest is the body of PUT /connections/:id/respond
type RespondConnectionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ConnectionCreatedResponse is returned after a request was sent
type ConnectionCreatedResponse struct {
	ConnectionID int64 `json:"connection_id"`
}

// ConnectionStatusResponse is the caller-relative status towards another user
type ConnectionStatusResponse struct {
	Status                 string `json:"status" example:"received"`
	ConnectionID           *int64 `json:"connection_id,omitempty"`
	MentorshipRelationship bool   `json:"mentorship_relationship"`
	MentorshipRole         string `json:"mentorship_role,omitempty" example:"mentor"`
	MentorshipStatus       string `json:"mentorship_status,omitempty" example:"active"`
}

// ConnectionResponse is one connection with the other party's basic profile
type ConnectionResponse struct {
	ConnectionID int64             `json:"connection_id"`
	Status       string            `json:"status"`
	Direction    string            `json:"direction,omitempty"`
	User         UserBasicResponse `json:"user"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ConnectionListResponse is a page of connections
type ConnectionListResponse struct {
	Connections []ConnectionResponse `json:"connections"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// ConnectionDetailResponse extends a connection with education and work info
type ConnectionDetailResponse struct {
	ConnectionResponse
	LatestEducation *EducationSummary `json:"latestEducation,omitempty"`
	CurrentWork     *WorkSummary      `json:"currentWork,omitempty"`
}

// ConnectionDetailListResponse is a page of detailed connections
type ConnectionDetailListResponse struct {
	Connections []ConnectionDetailResponse `json:"connections"`
	Pagination  PaginationInfo             `json:"pagination"`
}

// EducationSummary is the latest education row of a user
type EducationSummary struct {
	InstitutionName string `json:"institutionName"`
	Degree          string `json:"degree,omitempty"`
	FieldOfStudy    string `json:"fieldOfStudy,omitempty"`
	EndYear         *int   `json:"endYear,omitempty"`
}

// WorkSummary is the current work row of a user
type WorkSummary struct {
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
}
