package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// Decisions accepted by RespondToRequest
const (
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
)

// ConnectionService defines the connection state machine
type ConnectionService interface {
	SendRequest(ctx context.Context, sender models.Principal, receiverID int64) (*dto.ConnectionCreatedResponse, error)
	GetConnectionStatus(ctx context.Context, current models.Principal, targetID int64) (*dto.ConnectionStatusResponse, error)
	AcceptRequest(ctx context.Context, responder models.Principal, connectionID int64) error
	RejectRequest(ctx context.Context, receiver models.Principal, connectionID int64) error
	CancelRequest(ctx context.Context, sender models.Principal, connectionID int64) error
	RemoveConnection(ctx context.Context, actor models.Principal, connectionID int64) error
	RespondToRequest(ctx context.Context, receiver models.Principal, connectionID int64, decision string) error
	GetMyConnections(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionListResponse, error)
	GetPendingRequests(ctx context.Context, p models.Principal, direction string) ([]dto.ConnectionResponse, error)
	GetConnectionsWithDetails(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionDetailListResponse, error)
}

// connectionServiceImpl implements ConnectionService
type connectionServiceImpl struct {
	userRepo       repositories.IUserRepository
	connectionRepo repositories.IConnectionRepository
	mentorshipRepo repositories.IMentorshipRepository
	notifier       Notifier
	logger         zerolog.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	userRepo repositories.IUserRepository,
	connectionRepo repositories.IConnectionRepository,
	mentorshipRepo repositories.IMentorshipRepository,
	notifier Notifier,
	logger zerolog.Logger,
) ConnectionService {
	return &connectionServiceImpl{
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
		mentorshipRepo: mentorshipRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// activePeer loads a user that may take part in peer features
func activePeer(ctx context.Context, users repositories.IUserRepository, id int64, what string) (*models.User, error) {
	u, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", what, err)
	}
	if u == nil || !u.IsActive {
		return nil, apperrors.NewResourceNotFoundError(what + " not found")
	}
	if u.Role.IsAdministrator() {
		return nil, apperrors.NewForbiddenError("administrators cannot take part in connections, messages or groups")
	}
	return u, nil
}

// SendRequest creates a pending connection from sender to receiverID
func (s *connectionServiceImpl) SendRequest(ctx context.Context, sender models.Principal, receiverID int64) (*dto.ConnectionCreatedResponse, error) {
	if err := auth.RequirePeer(sender); err != nil {
		return nil, err
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewBadRequestError("you cannot send a connection request to yourself")
	}

	receiver, err := activePeer(ctx, s.userRepo, receiverID, "user")
	if err != nil {
		return nil, err
	}

	existing, err := s.connectionRepo.FindBetween(ctx, sender.ID, receiverID)
	if err != nil {
		s.logger.Error().Err(err).Int64("senderID", sender.ID).Int64("receiverID", receiverID).Msg("Failed to check existing connection")
		return nil, err
	}
	if existing != nil {
		switch {
		case existing.Status == models.ConnectionAccepted:
			return nil, apperrors.NewConflictError("you are already connected with this user")
		case existing.SenderID == sender.ID:
			return nil, apperrors.NewConflictError("connection request already sent")
		default:
			return nil, apperrors.NewConflictError("this user already sent you a connection request")
		}
	}

	conn, err := s.connectionRepo.Create(ctx, sender.ID, receiverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("a connection request between you already exists")
		}
		s.logger.Error().Err(err).Int64("senderID", sender.ID).Int64("receiverID", receiverID).Msg("Failed to create connection request")
		return nil, err
	}

	s.logger.Info().Int64("connectionID", conn.ID).Int64("senderID", sender.ID).Int64("receiverID", receiverID).Msg("Connection request sent")

	senderUser, err := s.userRepo.FindByID(ctx, sender.ID)
	if err != nil || senderUser == nil {
		senderUser = &models.User{ID: sender.ID, FirstName: "Someone"}
	}
	s.notifier.Notify(ctx, NotifyInput{
		UserID:    receiverID,
		Type:      models.NotificationConnectionRequest,
		Title:     "New connection request",
		Message:   senderUser.FullName() + " wants to connect with you",
		RelatedID: relatedID(conn.ID),
	})
	s.notifier.Email(ctx, receiver.Email, email.TemplateConnectionRequest, map[string]interface{}{
		"SenderName":    senderUser.FullName(),
		"RecipientName": receiver.FirstName,
	})

	return &dto.ConnectionCreatedResponse{ConnectionID: conn.ID}, nil
}

// GetConnectionStatus derives the caller-relative relation towards targetID
func (s *connectionServiceImpl) GetConnectionStatus(ctx context.Context, current models.Principal, targetID int64) (*dto.ConnectionStatusResponse, error) {
	if current.ID == targetID && !current.Role.IsAdministrator() {
		return &dto.ConnectionStatusResponse{Status: string(models.RelationSelf)}, nil
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NewResourceNotFoundError("user not found")
	}

	if current.Role.IsAdministrator() {
		return &dto.ConnectionStatusResponse{Status: string(models.RelationAdmin)}, nil
	}
	if target.Role.IsAdministrator() {
		return &dto.ConnectionStatusResponse{Status: string(models.RelationAdminUser)}, nil
	}

	conn, err := s.connectionRepo.FindBetween(ctx, current.ID, targetID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConnectionStatusResponse{Status: string(models.RelationFor(conn, current.ID))}
	if conn != nil {
		resp.ConnectionID = &conn.ID
	}

	mentorship, err := s.mentorshipRepo.FindBetween(ctx, current.ID, targetID, models.MessagingStatuses)
	if err != nil {
		// the annotation is additive; the status stands without it
		s.logger.Warn().Err(err).Int64("userID", current.ID).Int64("targetID", targetID).Msg("Failed to load mentorship for status")
		return resp, nil
	}
	if mentorship != nil {
		resp.MentorshipRelationship = true
		resp.MentorshipRole = mentorship.RoleOf(current.ID)
		resp.MentorshipStatus = string(mentorship.Status)
	}
	return resp, nil
}

// pendingFor loads a pending row or returns NotFound
func (s *connectionServiceImpl) pendingFor(ctx context.Context, connectionID int64) (*models.Connection, error) {
	conn, err := s.connectionRepo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.Status != models.ConnectionPending {
		return nil, apperrors.NewResourceNotFoundError("connection request not found")
	}
	return conn, nil
}

// AcceptRequest moves a pending request to accepted
func (s *connectionServiceImpl) AcceptRequest(ctx context.Context, responder models.Principal, connectionID int64) error {
	if err := auth.RequirePeer(responder); err != nil {
		return err
	}

	conn, err := s.connectionRepo.FindByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return apperrors.NewResourceNotFoundError("connection request not found")
	}
	if conn.ReceiverID != responder.ID {
		return apperrors.NewForbiddenError("only the receiver can accept this request")
	}
	if conn.Status == models.ConnectionAccepted {
		return apperrors.NewConflictError("connection request already accepted")
	}

	accepted, ok, err := s.connectionRepo.Accept(ctx, connectionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("connectionID", connectionID).Msg("Failed to accept connection request")
		return err
	}
	if !ok {
		// lost the race against another accept or a cancel
		current, err := s.connectionRepo.FindByID(ctx, connectionID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperrors.NewResourceNotFoundError("connection request not found")
		}
		return apperrors.NewConflictError("connection request already accepted")
	}

	s.logger.Info().Int64("connectionID", connectionID).Int64("receiverID", responder.ID).Msg("Connection request accepted")

	accepter, err := s.userRepo.FindByID(ctx, responder.ID)
	if err != nil || accepter == nil {
		accepter = &models.User{ID: responder.ID, FirstName: "Someone"}
	}
	s.notifier.Notify(ctx, NotifyInput{
		UserID:    accepted.SenderID,
		Type:      models.NotificationConnectionAccepted,
		Title:     "Connection request accepted",
		Message:   accepter.FullName() + " accepted your connection request",
		RelatedID: relatedID(accepted.ID),
	})
	if original, err := s.userRepo.FindByID(ctx, accepted.SenderID); err == nil && original != nil {
		s.notifier.Email(ctx, original.Email, email.TemplateConnectionAccepted, map[string]interface{}{
			"AccepterName":  accepter.FullName(),
			"RecipientName": original.FirstName,
		})
	}
	return nil
}

// RejectRequest deletes a pending request addressed to receiver
func (s *connectionServiceImpl) RejectRequest(ctx context.Context, receiver models.Principal, connectionID int64) error {
	if err := auth.RequirePeer(receiver); err != nil {
		return err
	}

	conn, err := s.pendingFor(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.ReceiverID != receiver.ID {
		return apperrors.NewForbiddenError("only the receiver can reject this request")
	}
	return s.deleteWithStatus(ctx, conn, "rejected")
}

// CancelRequest deletes a pending request sent by sender
func (s *connectionServiceImpl) CancelRequest(ctx context.Context, sender models.Principal, connectionID int64) error {
	if err := auth.RequirePeer(sender); err != nil {
		return err
	}

	conn, err := s.pendingFor(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.SenderID != sender.ID {
		return apperrors.NewForbiddenError("only the sender can cancel this request")
	}
	return s.deleteWithStatus(ctx, conn, "cancelled")
}

// RemoveConnection deletes an accepted connection; either party may do it
func (s *connectionServiceImpl) RemoveConnection(ctx context.Context, actor models.Principal, connectionID int64) error {
	if err := auth.RequirePeer(actor); err != nil {
		return err
	}

	conn, err := s.connectionRepo.FindByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil || conn.Status != models.ConnectionAccepted {
		return apperrors.NewResourceNotFoundError("connection not found")
	}
	if !conn.Involves(actor.ID) {
		return apperrors.NewForbiddenError("you are not part of this connection")
	}
	return s.deleteWithStatus(ctx, conn, "removed")
}

func (s *connectionServiceImpl) deleteWithStatus(ctx context.Context, conn *models.Connection, action string) error {
	ok, err := s.connectionRepo.DeleteWithStatus(ctx, conn.ID, conn.Status)
	if err != nil {
		s.logger.Error().Err(err).Int64("connectionID", conn.ID).Str("action", action).Msg("Failed to delete connection")
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("connection not found")
	}
	s.logger.Info().Int64("connectionID", conn.ID).Str("action", action).Msg("Connection deleted")
	return nil
}

// RespondToRequest accepts or rejects through one entry point
func (s *connectionServiceImpl) RespondToRequest(ctx context.Context, receiver models.Principal, connectionID int64, decision string) error {
	switch decision {
	case DecisionAccepted:
		return s.AcceptRequest(ctx, receiver, connectionID)
	case DecisionRejected:
		return s.RejectRequest(ctx, receiver, connectionID)
	default:
		return apperrors.NewBadRequestError("status must be 'accepted' or 'rejected'")
	}
}

func (s *connectionServiceImpl) otherParties(ctx context.Context, userID int64, conns []*models.Connection) (map[int64]*models.User, []int64, error) {
	ids := make([]int64, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.OtherParty(userID))
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return users, ids, nil
}

func toConnectionResponse(c *models.Connection, userID int64, users map[int64]*models.User) dto.ConnectionResponse {
	resp := dto.ConnectionResponse{
		ConnectionID: c.ID,
		Status:       string(c.Status),
		User:         userOrPlaceholder(users, c.OtherParty(userID)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Status == models.ConnectionPending {
		resp.Direction = string(models.RelationFor(c, userID))
	}
	return resp
}

// GetMyConnections lists the caller's accepted connections
func (s *connectionServiceImpl) GetMyConnections(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionListResponse, error) {
	resp := &dto.ConnectionListResponse{Connections: []dto.ConnectionResponse{}}
	if !auth.IsPeer(p) {
		resp.Pagination = helpers.NewPaginationInfo(0, page.Number, page.Size)
		return resp, nil
	}

	conns, total, err := s.connectionRepo.ListAccepted(ctx, p.ID, page.Limit(), page.Offset())
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", p.ID).Msg("Failed to list connections")
		return nil, err
	}
	users, _, err := s.otherParties(ctx, p.ID, conns)
	if err != nil {
		return nil, err
	}

	for _, c := range conns {
		resp.Connections = append(resp.Connections, toConnectionResponse(c, p.ID, users))
	}
	resp.Pagination = helpers.NewPaginationInfo(total, page.Number, page.Size)
	return resp, nil
}

// GetPendingRequests lists pending requests received by or sent from the caller
func (s *connectionServiceImpl) GetPendingRequests(ctx context.Context, p models.Principal, direction string) ([]dto.ConnectionResponse, error) {
	dir := repositories.PendingDirection(direction)
	if direction == "" {
		dir = repositories.PendingReceived
	}
	if dir != repositories.PendingReceived && dir != repositories.PendingSent {
		return nil, apperrors.NewBadRequestError("direction must be 'received' or 'sent'")
	}

	out := []dto.ConnectionResponse{}
	if !auth.IsPeer(p) {
		return out, nil
	}

	conns, err := s.connectionRepo.ListPending(ctx, p.ID, dir)
	if err != nil {
		return nil, err
	}
	users, _, err := s.otherParties(ctx, p.ID, conns)
	if err != nil {
		return nil, err
	}
	for _, c := range conns {
		out = append(out, toConnectionResponse(c, p.ID, users))
	}
	return out, nil
}

// GetConnectionsWithDetails lists accepted connections with latest education and current work
func (s *connectionServiceImpl) GetConnectionsWithDetails(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionDetailListResponse, error) {
	resp := &dto.ConnectionDetailListResponse{Connections: []dto.ConnectionDetailResponse{}}
	if !auth.IsPeer(p) {
		resp.Pagination = helpers.NewPaginationInfo(0, page.Number, page.Size)
		return resp, nil
	}

	conns, total, err := s.connectionRepo.ListAccepted(ctx, p.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	users, ids, err := s.otherParties(ctx, p.ID, conns)
	if err != nil {
		return nil, err
	}
	education, err := s.userRepo.LatestEducation(ctx, ids)
	if err != nil {
		return nil, err
	}
	work, err := s.userRepo.CurrentWork(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range conns {
		other := c.OtherParty(p.ID)
		detail := dto.ConnectionDetailResponse{ConnectionResponse: toConnectionResponse(c, p.ID, users)}
		if e, ok := education[other]; ok {
			detail.LatestEducation = &dto.EducationSummary{
				InstitutionName: e.InstitutionName,
				Degree:          e.Degree,
				FieldOfStudy:    e.FieldOfStudy,
				EndYear:         e.EndYear,
			}
		}
		if w, ok := work[other]; ok {
			detail.CurrentWork = &dto.WorkSummary{CompanyName: w.CompanyName, Position: w.Position}
		}
		resp.Connections = append(resp.Connections, detail)
	}
	resp.Pagination = helpers.NewPaginationInfo(total, page.Number, page.Size)
	return resp, nil
}
