package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// GroupController handles group chats
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// bindCreateGroup accepts either a multipart form or a JSON body
func bindCreateGroup(ctx *gin.Context) (dto.CreateGroupRequest, *multipart.FileHeader, error) {
	var req dto.CreateGroupRequest
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		err := ctx.ShouldBindJSON(&req)
		return req, nil, err
	}

	if err := ctx.ShouldBind(&req); err != nil {
		return req, nil, err
	}
	ids, err := helpers.ParseIDList(ctx.PostFormArray("member_ids"))
	if err != nil {
		return req, nil, err
	}
	req.MemberIDs = ids

	avatar, err := ctx.FormFile("avatar")
	if err != nil {
		avatar = nil
	}
	return req, avatar, nil
}

// CreateGroup creates a group with the caller as its admin
// @Summary Create group
// @Description Every member_id must be an accepted connection of the caller. The avatar, if given, must be an image.
// @Tags groups
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param group_name formData string true "Group name"
// @Param group_description formData string false "Description"
// @Param member_ids formData []int true "Initial members" collectionFormat(multi)
// @Param avatar formData file false "Group avatar image"
// @Success 201 {object} dto.APIResponse{data=dto.GroupDetailResponse} "Group created"
// @Failure 400 {object} dto.ErrorResponse "Invalid members or avatar"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	req, avatar, err := bindCreateGroup(ctx)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.groupService.CreateGroup(ctx.Request.Context(), p, req.GroupName, req.GroupDescription, avatar, req.MemberIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Group created"))
}

// GetMyGroups lists the caller's active groups
// @Summary List my groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupSummaryResponse}
// @Router /groups [get]
func (c *GroupController) GetMyGroups(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	resp, err := c.groupService.GetMyGroups(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetGroup returns a group with its active members
// @Summary Get group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupDetailResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.groupService.GetGroup(ctx.Request.Context(), p, groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteGroup deletes a group; creator only
// @Summary Delete group
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Only the creator can delete"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx.Request.Context(), p, groupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Group deleted"))
}

// AddGroupMembers adds connections of the caller to the group
// @Summary Add group members
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.AddGroupMembersRequest true "Members"
// @Success 200 {object} dto.APIResponse{data=dto.AddGroupMembersResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a group admin"
// @Router /groups/{id}/members [post]
func (c *GroupController) AddGroupMembers(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddGroupMembersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.groupService.AddGroupMembers(ctx.Request.Context(), p, groupID, req.MemberIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Members added"))
}

// RemoveMember deactivates a member
// @Summary Remove group member
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param userId path int true "Member ID"
// @Success 200 {object} dto.APIResponse
// @Router /groups/{id}/members/{userId} [delete]
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.groupService.RemoveMember(ctx.Request.Context(), p, groupID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member removed"))
}

// UpdateMemberRole promotes or demotes a member
// @Summary Update member role
// @Tags groups
// @Accept json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param userId path int true "Member ID"
// @Param request body dto.UpdateMemberRoleRequest true "admin or member"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid role or last admin"
// @Router /groups/{id}/members/{userId}/role [put]
func (c *GroupController) UpdateMemberRole(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.groupService.UpdateMemberRole(ctx.Request.Context(), p, groupID, userID, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member role updated"))
}

// LeaveGroup removes the caller from the group
// @Summary Leave group
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Creator cannot leave"
// @Router /groups/{id}/leave [post]
func (c *GroupController) LeaveGroup(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.groupService.LeaveGroup(ctx.Request.Context(), p, groupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Left group"))
}

// SendGroupMessage posts a message to the group
// @Summary Send group message
// @Tags groups
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param message_text formData string false "Message text"
// @Param attachments formData file false "Up to 5 files of 10MB each"
// @Success 201 {object} dto.APIResponse{data=dto.GroupMessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /groups/{id}/messages [post]
func (c *GroupController) SendGroupMessage(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendGroupMessageRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.groupService.SendGroupMessage(ctx.Request.Context(), p, groupID, req.MessageText, formFiles(ctx, "attachments"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Message sent"))
}

// GetGroupMessages returns a page of group messages
// @Summary List group messages
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.GroupMessageListResponse}
// @Router /groups/{id}/messages [get]
func (c *GroupController) GetGroupMessages(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.groupService.GetGroupMessages(ctx.Request.Context(), p, groupID, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteGroupMessage hides or removes a group message
// @Summary Delete group message
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param messageId path int true "Message ID"
// @Param delete_for query string false "self (default) or everyone"
// @Success 200 {object} dto.APIResponse
// @Router /groups/{id}/messages/{messageId} [delete]
func (c *GroupController) DeleteGroupMessage(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	groupID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	messageID, ok := idParam(ctx, "messageId")
	if !ok {
		return
	}

	var q dto.DeleteMessageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.groupService.DeleteGroupMessage(ctx.Request.Context(), p, groupID, messageID, models.DeleteScope(q.Scope())); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Message deleted"))
}
