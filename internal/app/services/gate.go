package services

import (
	"context"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
)

// MessagingGate decides whether two users may exchange direct messages:
// they need an accepted connection or a requested, active or completed
// mentorship. Sharing a group is not enough.
type MessagingGate struct {
	connectionRepo repositories.IConnectionRepository
	mentorshipRepo repositories.IMentorshipRepository
}

// NewMessagingGate creates a new MessagingGate
func NewMessagingGate(connectionRepo repositories.IConnectionRepository, mentorshipRepo repositories.IMentorshipRepository) *MessagingGate {
	return &MessagingGate{connectionRepo: connectionRepo, mentorshipRepo: mentorshipRepo}
}

// CanMessage evaluates the gate for the unordered pair {a, b}
func (g *MessagingGate) CanMessage(ctx context.Context, a, b int64) (bool, error) {
	conn, err := g.connectionRepo.FindBetween(ctx, a, b)
	if err != nil {
		return false, err
	}
	if conn != nil && conn.Status == models.ConnectionAccepted {
		return true, nil
	}

	m, err := g.mentorshipRepo.FindBetween(ctx, a, b, models.MessagingStatuses)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}
