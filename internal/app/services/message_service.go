package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// MessageService defines direct messaging operations
type MessageService interface {
	SendMessage(ctx context.Context, sender models.Principal, receiverID int64, text string, files []*multipart.FileHeader) (*dto.MessageResponse, error)
	GetConversation(ctx context.Context, viewer models.Principal, otherID int64) (*dto.ConversationResponse, error)
	DeleteMessage(ctx context.Context, actor models.Principal, messageID int64, scope models.DeleteScope) error
	GetConversations(ctx context.Context, viewer models.Principal) ([]dto.ConversationSummaryResponse, error)
	GetUnreadCount(ctx context.Context, viewer models.Principal) (int64, error)
	MarkConversationRead(ctx context.Context, viewer models.Principal, otherID int64) (int64, error)
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	userRepo    repositories.IUserRepository
	messageRepo repositories.IMessageRepository
	gate        *MessagingGate
	files       attachmentStore
	notifier    Notifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(
	userRepo repositories.IUserRepository,
	messageRepo repositories.IMessageRepository,
	gate *MessagingGate,
	storage filestorage.FileStorage,
	notifier Notifier,
	limits MessagingLimits,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		gate:        gate,
		files:       attachmentStore{storage: storage, limits: limits.withDefaults(), logger: logger},
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *messageServiceImpl) requireGate(ctx context.Context, a, b int64) error {
	ok, err := s.gate.CanMessage(ctx, a, b)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", a).Int64("otherID", b).Msg("Failed to evaluate messaging gate")
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("you can only message your connections and mentorship partners")
	}
	return nil
}

// SendMessage stores the attachments, then writes the message and its
// attachment rows in one transaction
func (s *messageServiceImpl) SendMessage(ctx context.Context, sender models.Principal, receiverID int64, text string, files []*multipart.FileHeader) (*dto.MessageResponse, error) {
	if err := auth.RequirePeer(sender); err != nil {
		return nil, err
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewBadRequestError("you cannot message yourself")
	}
	if err := s.files.validatePayload(text, files); err != nil {
		return nil, err
	}

	if _, err := activePeer(ctx, s.userRepo, receiverID, "receiver"); err != nil {
		return nil, err
	}
	if err := s.requireGate(ctx, sender.ID, receiverID); err != nil {
		return nil, err
	}

	atts, err := s.files.save(files, fmt.Sprintf("messages/%d", sender.ID))
	if err != nil {
		s.logger.Error().Err(err).Int64("senderID", sender.ID).Msg("Failed to store message attachments")
		return nil, err
	}

	msg := &models.Message{
		SenderID:    sender.ID,
		ReceiverID:  receiverID,
		Text:        text,
		Attachments: atts,
	}
	if err := s.messageRepo.CreateWithAttachments(ctx, msg); err != nil {
		s.files.remove(atts)
		s.logger.Error().Err(err).Int64("senderID", sender.ID).Int64("receiverID", receiverID).Msg("Failed to save message")
		return nil, err
	}

	s.logger.Info().
		Int64("messageID", msg.ID).
		Int64("senderID", sender.ID).
		Int64("receiverID", receiverID).
		Int("attachments", len(atts)).
		Msg("Message sent")

	preview := text
	if preview == "" {
		preview = fmt.Sprintf("sent %d attachment(s)", len(atts))
	}
	s.notifier.Notify(ctx, NotifyInput{
		UserID:    receiverID,
		Type:      models.NotificationMessage,
		Title:     "New message",
		Message:   truncate(preview, 100),
		RelatedID: relatedID(msg.ID),
	})

	resp := toMessageResponse(msg)
	return &resp, nil
}

// GetConversation returns the visible history with otherID and marks the
// messages otherID sent to the viewer as read
func (s *messageServiceImpl) GetConversation(ctx context.Context, viewer models.Principal, otherID int64) (*dto.ConversationResponse, error) {
	if err := auth.RequirePeer(viewer); err != nil {
		return nil, err
	}

	other, err := s.userRepo.FindByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, apperrors.NewResourceNotFoundError("user not found")
	}
	if err := s.requireGate(ctx, viewer.ID, otherID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListConversation(ctx, viewer.ID, otherID)
	if err != nil {
		s.logger.Error().Err(err).Int64("viewerID", viewer.ID).Int64("otherID", otherID).Msg("Failed to load conversation")
		return nil, err
	}

	if _, err := s.messageRepo.MarkConversationRead(ctx, viewer.ID, otherID); err != nil {
		s.logger.Warn().Err(err).Int64("viewerID", viewer.ID).Int64("otherID", otherID).Msg("Failed to mark conversation read")
	}

	resp := &dto.ConversationResponse{
		Partner:  toUserBasic(other),
		Messages: make([]dto.MessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}
	return resp, nil
}

// DeleteMessage hides the message for the actor or removes it for both sides
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, actor models.Principal, messageID int64, scope models.DeleteScope) error {
	if err := auth.RequirePeer(actor); err != nil {
		return err
	}
	if scope != models.DeleteForSelf && scope != models.DeleteForEveryone {
		return apperrors.NewBadRequestError("delete_for must be 'self' or 'everyone'")
	}

	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperrors.NewResourceNotFoundError("message not found")
	}
	if msg.SenderID != actor.ID && msg.ReceiverID != actor.ID {
		return apperrors.NewForbiddenError("you are not part of this conversation")
	}

	if scope == models.DeleteForSelf {
		return s.messageRepo.MarkDeletedFor(ctx, messageID, msg.SenderID == actor.ID)
	}

	if msg.SenderID != actor.ID {
		return apperrors.NewForbiddenError("only the sender can delete a message for everyone")
	}
	if !helpers.WithinWindow(msg.CreatedAt, s.now(), s.files.limits.DeleteWindow) {
		return apperrors.NewBadRequestError(fmt.Sprintf("messages can only be deleted for everyone within %s of sending",
			s.files.limits.DeleteWindow))
	}

	removed, err := s.messageRepo.DeleteWithAttachments(ctx, messageID)
	if err != nil {
		s.logger.Error().Err(err).Int64("messageID", messageID).Msg("Failed to delete message")
		return err
	}
	s.files.remove(removed)

	s.logger.Info().Int64("messageID", messageID).Int64("senderID", actor.ID).Msg("Message deleted for everyone")
	return nil
}

// GetConversations lists the caller's conversation partners, latest first
func (s *messageServiceImpl) GetConversations(ctx context.Context, viewer models.Principal) ([]dto.ConversationSummaryResponse, error) {
	out := []dto.ConversationSummaryResponse{}
	if !auth.IsPeer(viewer) {
		return out, nil
	}

	convs, err := s.messageRepo.ListConversations(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.PartnerID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range convs {
		out = append(out, dto.ConversationSummaryResponse{
			Partner:       userOrPlaceholder(users, c.PartnerID),
			LastMessageID: c.LastMessageID,
			LastMessage:   c.LastText,
			LastSenderID:  c.LastSenderID,
			LastMessageAt: c.LastAt,
			UnreadCount:   c.UnreadCount,
		})
	}
	return out, nil
}

// GetUnreadCount counts unread direct messages addressed to the caller
func (s *messageServiceImpl) GetUnreadCount(ctx context.Context, viewer models.Principal) (int64, error) {
	if !auth.IsPeer(viewer) {
		return 0, nil
	}
	return s.messageRepo.CountUnread(ctx, viewer.ID)
}

// MarkConversationRead marks what otherID sent the caller as read
func (s *messageServiceImpl) MarkConversationRead(ctx context.Context, viewer models.Principal, otherID int64) (int64, error) {
	if err := auth.RequirePeer(viewer); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkConversationRead(ctx, viewer.ID, otherID)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
