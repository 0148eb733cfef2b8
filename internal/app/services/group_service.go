package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
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

// GroupService defines group chat membership and messaging operations
type GroupService interface {
	CreateGroup(ctx context.Context, creator models.Principal, name, description string, avatar *multipart.FileHeader, memberIDs []int64) (*dto.GroupDetailResponse, error)
	AddGroupMembers(ctx context.Context, p models.Principal, groupID int64, memberIDs []int64) (*dto.AddGroupMembersResponse, error)
	RemoveMember(ctx context.Context, p models.Principal, groupID, targetID int64) error
	UpdateMemberRole(ctx context.Context, p models.Principal, groupID, targetID int64, role string) error
	LeaveGroup(ctx context.Context, p models.Principal, groupID int64) error
	DeleteGroup(ctx context.Context, p models.Principal, groupID int64) error
	SendGroupMessage(ctx context.Context, p models.Principal, groupID int64, text string, files []*multipart.FileHeader) (*dto.GroupMessageResponse, error)
	GetGroupMessages(ctx context.Context, p models.Principal, groupID int64, page helpers.Page) (*dto.GroupMessageListResponse, error)
	DeleteGroupMessage(ctx context.Context, p models.Principal, groupID, messageID int64, scope models.DeleteScope) error
	GetMyGroups(ctx context.Context, p models.Principal) ([]dto.GroupSummaryResponse, error)
	GetGroup(ctx context.Context, p models.Principal, groupID int64) (*dto.GroupDetailResponse, error)
}

// groupServiceImpl implements GroupService
type groupServiceImpl struct {
	userRepo       repositories.IUserRepository
	groupRepo      repositories.IGroupRepository
	connectionRepo repositories.IConnectionRepository
	authzService   *auth.AuthorizationService
	files          attachmentStore
	notifier       Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewGroupService creates a new GroupService
func NewGroupService(
	userRepo repositories.IUserRepository,
	groupRepo repositories.IGroupRepository,
	connectionRepo repositories.IConnectionRepository,
	authzService *auth.AuthorizationService,
	storage filestorage.FileStorage,
	notifier Notifier,
	limits MessagingLimits,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		connectionRepo: connectionRepo,
		authzService:   authzService,
		files:          attachmentStore{storage: storage, limits: limits.withDefaults(), logger: logger},
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *groupServiceImpl) notifyAdded(ctx context.Context, group *models.GroupChat, userIDs []int64) {
	for _, id := range userIDs {
		s.notifier.Notify(ctx, NotifyInput{
			UserID:    id,
			Type:      models.NotificationSystem,
			Title:     "Added to a group",
			Message:   fmt.Sprintf("You were added to the group %q", group.Name),
			RelatedID: relatedID(group.ID),
		})
	}
}

func (s *groupServiceImpl) saveAvatar(fh *multipart.FileHeader) (*models.Attachment, error) {
	if fh.Size > s.files.limits.MaxAttachmentSize {
		return nil, apperrors.NewBadRequestError("group avatar is too large")
	}
	atts, err := s.files.save([]*multipart.FileHeader{fh}, "groups/avatars")
	if err != nil {
		return nil, err
	}
	if atts[0].FileType != models.FileImage {
		s.files.remove(atts)
		return nil, apperrors.NewBadRequestError("group avatar must be an image")
	}
	return atts[0], nil
}

// eligibleMembers keeps the ids that are accepted connections of ownerID
// with an active alumni account, in input order
func (s *groupServiceImpl) eligibleMembers(ctx context.Context, ownerID int64, ids []int64) ([]int64, error) {
	connected, err := s.connectionRepo.FilterAccepted(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByIDs(ctx, connected)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(connected))
	for _, id := range connected {
		if u, ok := users[id]; ok && u.IsActive && !u.Role.IsAdministrator() {
			out = append(out, id)
		}
	}
	return out, nil
}

// CreateGroup creates the group with the creator as admin. Every member must
// be an accepted connection of the creator.
func (s *groupServiceImpl) CreateGroup(ctx context.Context, creator models.Principal, name, description string, avatar *multipart.FileHeader, memberIDs []int64) (*dto.GroupDetailResponse, error) {
	if err := auth.RequirePeer(creator); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("group name is required")
	}
	ids := helpers.UniqueIDs(memberIDs, creator.ID)
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequestError("at least one member is required")
	}

	eligible, err := s.eligibleMembers(ctx, creator.ID, ids)
	if err != nil {
		s.logger.Error().Err(err).Int64("creatorID", creator.ID).Msg("Failed to verify group members")
		return nil, err
	}
	if len(eligible) != len(ids) {
		return nil, apperrors.NewBadRequestError("all members must be active connections of yours")
	}

	group := &models.GroupChat{Name: name, CreatedBy: creator.ID}
	if d := strings.TrimSpace(description); d != "" {
		group.Description = &d
	}

	var stored *models.Attachment
	if avatar != nil {
		stored, err = s.saveAvatar(avatar)
		if err != nil {
			return nil, err
		}
		group.Avatar = &stored.FileURL
	}

	if err := s.groupRepo.CreateWithMembers(ctx, group, ids); err != nil {
		if stored != nil {
			s.files.remove([]*models.Attachment{stored})
		}
		s.logger.Error().Err(err).Int64("creatorID", creator.ID).Msg("Failed to create group")
		return nil, err
	}

	s.logger.Info().Int64("groupID", group.ID).Int64("creatorID", creator.ID).Int("members", len(ids)).Msg("Group created")
	s.notifyAdded(ctx, group, ids)

	return s.GetGroup(ctx, creator, group.ID)
}

// AddGroupMembers adds the caller's connections that are not active members yet
func (s *groupServiceImpl) AddGroupMembers(ctx context.Context, p models.Principal, groupID int64, memberIDs []int64) (*dto.AddGroupMembersResponse, error) {
	group, err := s.authzService.RequireAdmin(ctx, groupID, p)
	if err != nil {
		return nil, err
	}

	ids := helpers.UniqueIDs(memberIDs, p.ID)
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequestError("at least one member is required")
	}

	connected, err := s.eligibleMembers(ctx, p.ID, ids)
	if err != nil {
		return nil, err
	}
	if len(connected) == 0 {
		return nil, apperrors.NewBadRequestError("members must be active connections of yours")
	}

	active, err := s.groupRepo.FilterActiveMembers(ctx, groupID, connected)
	if err != nil {
		return nil, err
	}
	already := make(map[int64]struct{}, len(active))
	for _, id := range active {
		already[id] = struct{}{}
	}
	toAdd := make([]int64, 0, len(connected))
	for _, id := range connected {
		if _, ok := already[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	if len(toAdd) == 0 {
		return nil, apperrors.NewBadRequestError("these users are already in the group")
	}

	if err := s.groupRepo.AddMembers(ctx, groupID, toAdd); err != nil {
		s.logger.Error().Err(err).Int64("groupID", groupID).Msg("Failed to add group members")
		return nil, err
	}

	s.logger.Info().Int64("groupID", groupID).Int64("adminID", p.ID).Int("added", len(toAdd)).Msg("Group members added")
	s.notifyAdded(ctx, group, toAdd)

	return &dto.AddGroupMembersResponse{AddedUserIDs: toAdd}, nil
}

// RemoveMember deactivates another member's membership
func (s *groupServiceImpl) RemoveMember(ctx context.Context, p models.Principal, groupID, targetID int64) error {
	group, err := s.authzService.RequireAdmin(ctx, groupID, p)
	if err != nil {
		return err
	}
	if targetID == group.CreatedBy {
		return apperrors.NewBadRequestError("the group creator cannot be removed")
	}

	ok, err := s.groupRepo.DeactivateMember(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("member not found")
	}
	s.logger.Info().Int64("groupID", groupID).Int64("userID", targetID).Int64("adminID", p.ID).Msg("Group member removed")
	return nil
}

// UpdateMemberRole promotes or demotes a member. The last active admin
// cannot be demoted.
func (s *groupServiceImpl) UpdateMemberRole(ctx context.Context, p models.Principal, groupID, targetID int64, role string) error {
	if _, err := s.authzService.RequireAdmin(ctx, groupID, p); err != nil {
		return err
	}

	newRole := models.GroupRole(role)
	if !newRole.IsValid() {
		return apperrors.NewBadRequestError("role must be 'admin' or 'member'")
	}

	target, err := s.groupRepo.FindMember(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil || !target.IsActive {
		return apperrors.NewResourceNotFoundError("member not found")
	}
	if target.Role == newRole {
		return nil
	}

	if target.Role == models.GroupRoleAdmin && newRole == models.GroupRoleMember {
		admins, err := s.groupRepo.CountActiveAdmins(ctx, groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.NewBadRequestError("a group needs at least one admin")
		}
	}

	ok, err := s.groupRepo.UpdateMemberRole(ctx, groupID, targetID, newRole)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("member not found")
	}
	s.logger.Info().Int64("groupID", groupID).Int64("userID", targetID).Str("role", role).Msg("Group member role updated")
	return nil
}

// LeaveGroup ends the caller's own membership
func (s *groupServiceImpl) LeaveGroup(ctx context.Context, p models.Principal, groupID int64) error {
	if err := auth.RequirePeer(p); err != nil {
		return err
	}
	group, err := s.authzService.ActiveGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy == p.ID {
		return apperrors.NewBadRequestError("the creator cannot leave the group, delete the group instead")
	}

	ok, err := s.groupRepo.DeactivateMember(ctx, groupID, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewResourceNotFoundError("you are not a member of this group")
	}
	s.logger.Info().Int64("groupID", groupID).Int64("userID", p.ID).Msg("Left group")
	return nil
}

// DeleteGroup soft-deletes the group; only the creator may do it
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, p models.Principal, groupID int64) error {
	if err := auth.RequirePeer(p); err != nil {
		return err
	}
	group, err := s.authzService.ActiveGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != p.ID {
		return apperrors.NewForbiddenError("only the group creator can delete the group")
	}

	if err := s.groupRepo.Deactivate(ctx, groupID); err != nil {
		s.logger.Error().Err(err).Int64("groupID", groupID).Msg("Failed to delete group")
		return err
	}
	s.logger.Info().Int64("groupID", groupID).Int64("creatorID", p.ID).Msg("Group deleted")
	return nil
}

// SendGroupMessage posts into a group the caller is an active member of
func (s *groupServiceImpl) SendGroupMessage(ctx context.Context, p models.Principal, groupID int64, text string, files []*multipart.FileHeader) (*dto.GroupMessageResponse, error) {
	group, _, err := s.authzService.RequireMember(ctx, groupID, p)
	if err != nil {
		return nil, err
	}
	if err := s.files.validatePayload(text, files); err != nil {
		return nil, err
	}

	atts, err := s.files.save(files, fmt.Sprintf("groups/%d", groupID))
	if err != nil {
		return nil, err
	}

	msg := &models.GroupMessage{
		GroupID:     groupID,
		SenderID:    p.ID,
		Text:        text,
		Attachments: atts,
	}
	if err := s.groupRepo.CreateMessageWithAttachments(ctx, msg); err != nil {
		s.files.remove(atts)
		s.logger.Error().Err(err).Int64("groupID", groupID).Int64("senderID", p.ID).Msg("Failed to save group message")
		return nil, err
	}

	members, err := s.groupRepo.ListActiveMembers(ctx, groupID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("groupID", groupID).Msg("Failed to load members for notification fan-out")
	}
	preview := text
	if preview == "" {
		preview = fmt.Sprintf("sent %d attachment(s)", len(atts))
	}
	for _, m := range members {
		if m.UserID == p.ID {
			continue
		}
		s.notifier.Notify(ctx, NotifyInput{
			UserID:    m.UserID,
			Type:      models.NotificationMessage,
			Title:     "New message in " + group.Name,
			Message:   truncate(preview, 100),
			RelatedID: relatedID(groupID),
		})
	}

	resp := toGroupMessageResponse(msg)
	return &resp, nil
}

// GetGroupMessages returns a page of visible messages and moves the caller's read marker
func (s *groupServiceImpl) GetGroupMessages(ctx context.Context, p models.Principal, groupID int64, page helpers.Page) (*dto.GroupMessageListResponse, error) {
	if _, _, err := s.authzService.RequireMember(ctx, groupID, p); err != nil {
		return nil, err
	}

	msgs, total, err := s.groupRepo.ListMessages(ctx, groupID, p.ID, page.Limit(), page.Offset())
	if err != nil {
		s.logger.Error().Err(err).Int64("groupID", groupID).Msg("Failed to list group messages")
		return nil, err
	}

	if err := s.groupRepo.TouchLastRead(ctx, groupID, p.ID); err != nil {
		s.logger.Warn().Err(err).Int64("groupID", groupID).Int64("userID", p.ID).Msg("Failed to update read marker")
	}

	resp := &dto.GroupMessageListResponse{
		Messages:   make([]dto.GroupMessageResponse, 0, len(msgs)),
		Pagination: helpers.NewPaginationInfo(total, page.Number, page.Size),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, toGroupMessageResponse(m))
	}
	return resp, nil
}

// DeleteGroupMessage hides a message for the caller or removes it for every member
func (s *groupServiceImpl) DeleteGroupMessage(ctx context.Context, p models.Principal, groupID, messageID int64, scope models.DeleteScope) error {
	if scope != models.DeleteForSelf && scope != models.DeleteForEveryone {
		return apperrors.NewBadRequestError("delete_for must be 'self' or 'everyone'")
	}
	if _, _, err := s.authzService.RequireMember(ctx, groupID, p); err != nil {
		return err
	}

	msg, err := s.groupRepo.FindMessage(ctx, groupID, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperrors.NewResourceNotFoundError("message not found")
	}

	if scope == models.DeleteForSelf {
		if msg.SenderID == p.ID {
			return s.groupRepo.HideMessageForSender(ctx, messageID)
		}
		return s.groupRepo.HideMessageForMember(ctx, messageID, p.ID)
	}

	if msg.SenderID != p.ID {
		return apperrors.NewForbiddenError("only the sender can delete a message for everyone")
	}
	if !helpers.WithinWindow(msg.CreatedAt, s.now(), s.files.limits.DeleteWindow) {
		return apperrors.NewBadRequestError(fmt.Sprintf("messages can only be deleted for everyone within %s of sending",
			s.files.limits.DeleteWindow))
	}

	removed, err := s.groupRepo.DeleteMessageWithAttachments(ctx, messageID)
	if err != nil {
		s.logger.Error().Err(err).Int64("messageID", messageID).Msg("Failed to delete group message")
		return err
	}
	s.files.remove(removed)
	s.logger.Info().Int64("groupID", groupID).Int64("messageID", messageID).Msg("Group message deleted for everyone")
	return nil
}

// GetMyGroups lists the active groups of the caller
func (s *groupServiceImpl) GetMyGroups(ctx context.Context, p models.Principal) ([]dto.GroupSummaryResponse, error) {
	out := []dto.GroupSummaryResponse{}
	if !auth.IsPeer(p) {
		return out, nil
	}

	groups, err := s.groupRepo.ListForUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		out = append(out, dto.GroupSummaryResponse{
			GroupResponse: toGroupResponse(g.Group),
			MyRole:        string(g.Role),
			MemberCount:   g.MemberCount,
			UnreadCount:   g.UnreadCount,
		})
	}
	return out, nil
}

// GetGroup returns the group and its active members to a member
func (s *groupServiceImpl) GetGroup(ctx context.Context, p models.Principal, groupID int64) (*dto.GroupDetailResponse, error) {
	group, me, err := s.authzService.RequireMember(ctx, groupID, p)
	if err != nil {
		return nil, err
	}

	members, err := s.groupRepo.ListActiveMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.GroupDetailResponse{
		GroupResponse: toGroupResponse(group),
		MyRole:        string(me.Role),
		Members:       make([]dto.GroupMemberResponse, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, dto.GroupMemberResponse{
			User:     userOrPlaceholder(users, m.UserID),
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return resp, nil
}
