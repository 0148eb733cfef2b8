package auth

import (
	"context"
	"fmt"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// Messages shared by every peer-only operation
const (
	msgAdminsNotAllowed  = "administrators cannot take part in connections, messages or groups"
	msgNotGroupMember    = "you are not a member of this group"
	msgGroupAdminOnly    = "only group admins can perform this action"
	msgGroupNotAvailable = "group not found"
)

// IsPeer reports whether p may take part in peer features
func IsPeer(p models.Principal) bool {
	return p.Role == models.RoleAlumni
}

// RequirePeer rejects administrators with a Forbidden error
func RequirePeer(p models.Principal) error {
	if !IsPeer(p) {
		return apperrors.NewForbiddenError(msgAdminsNotAllowed)
	}
	return nil
}

// GroupLookup is the part of the group store the authorizer reads
type GroupLookup interface {
	FindByID(ctx context.Context, groupID int64) (*models.GroupChat, error)
	FindMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
}

// AuthorizationService answers group membership questions
type AuthorizationService struct {
	groups GroupLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(groups GroupLookup) *AuthorizationService {
	return &AuthorizationService{groups: groups}
}

// ActiveGroup loads an active group or returns NotFound
func (s *AuthorizationService) ActiveGroup(ctx context.Context, groupID int64) (*models.GroupChat, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group %d: %w", groupID, err)
	}
	if group == nil || !group.IsActive {
		return nil, apperrors.NewResourceNotFoundError(msgGroupNotAvailable)
	}
	return group, nil
}

// RequireMember returns the active group and the caller's active membership.
// Non-members get Forbidden.
func (s *AuthorizationService) RequireMember(ctx context.Context, groupID int64, p models.Principal) (*models.GroupChat, *models.GroupMember, error) {
	if err := RequirePeer(p); err != nil {
		return nil, nil, err
	}

	group, err := s.ActiveGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.groups.FindMember(ctx, groupID, p.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load membership: %w", err)
	}
	if member == nil || !member.IsActive {
		return nil, nil, apperrors.NewForbiddenError(msgNotGroupMember)
	}
	return group, member, nil
}

// RequireAdmin is RequireMember plus the admin role
func (s *AuthorizationService) RequireAdmin(ctx context.Context, groupID int64, p models.Principal) (*models.GroupChat, error) {
	group, member, err := s.RequireMember(ctx, groupID, p)
	if err != nil {
		return nil, err
	}
	if member.Role != models.GroupRoleAdmin {
		return nil, apperrors.NewForbiddenError(msgGroupAdminOnly)
	}
	return group, nil
}
