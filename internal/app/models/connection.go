package models

import "time"

// ConnectionStatus is the persisted state of a connection row
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
)

// Connection is a peer relationship between two alumni. There is at most
// one row per unordered pair; rejected, cancelled and removed connections
// are deleted rather than kept with a terminal status.
type Connection struct {
	ID         int64            `json:"id" db:"connection_id"`
	SenderID   int64            `json:"senderId" db:"sender_id"`
	ReceiverID int64            `json:"receiverId" db:"receiver_id"`
	Status     ConnectionStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// Involves reports whether userID is one of the two parties
func (c *Connection) Involves(userID int64) bool {
	return c.SenderID == userID || c.ReceiverID == userID
}

// OtherParty returns the party that is not userID
func (c *Connection) OtherParty(userID int64) int64 {
	if c.SenderID == userID {
		return c.ReceiverID
	}
	return c.SenderID
}

// RelationStatus is the caller-relative view of a connection
type RelationStatus string

const (
	RelationSelf      RelationStatus = "self"
	RelationAdmin     RelationStatus = "admin"
	RelationAdminUser RelationStatus = "admin_user"
	RelationAccepted  RelationStatus = "accepted"
	RelationSent      RelationStatus = "sent"
	RelationReceived  RelationStatus = "received"
	RelationNone      RelationStatus = "none"
)

// RelationFor derives the caller-relative status of conn as seen by viewerID.
// A nil connection yields RelationNone.
func RelationFor(conn *Connection, viewerID int64) RelationStatus {
	if conn == nil {
		return RelationNone
	}
	if conn.Status == ConnectionAccepted {
		return RelationAccepted
	}
	if conn.SenderID == viewerID {
		return RelationSent
	}
	return RelationReceived
}

// MentorshipStatus is the lifecycle state of a mentorship
type MentorshipStatus string

const (
	MentorshipRequested MentorshipStatus = "requested"
	MentorshipActive    MentorshipStatus = "active"
	MentorshipCompleted MentorshipStatus = "completed"
)

// MessagingStatuses are the mentorship states that open a messaging channel
var MessagingStatuses = []MentorshipStatus{MentorshipRequested, MentorshipActive, MentorshipCompleted}

// Mentorship is read here only to widen the messaging gate and annotate status
type Mentorship struct {
	ID             int64            `json:"id" db:"mentorship_id"`
	MentorID       int64            `json:"mentorId" db:"mentor_id"`
	MenteeID       int64            `json:"menteeId" db:"mentee_id"`
	Status         MentorshipStatus `json:"status" db:"status"`
	AreaOfGuidance *string          `json:"areaOfGuidance,omitempty" db:"area_of_guidance"`
	StartDate      *time.Time       `json:"startDate,omitempty" db:"start_date"`
	EndDate        *time.Time       `json:"endDate,omitempty" db:"end_date"`
}

// RoleOf returns "mentor" or "mentee" for userID
func (m *Mentorship) RoleOf(userID int64) string {
	if m.MentorID == userID {
		return "mentor"
	}
	return "mentee"
}
