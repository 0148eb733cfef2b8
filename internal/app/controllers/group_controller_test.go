package controllers

import (
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

func newGroupRouter(svc *mockGroupService) *gin.Engine {
	c := NewGroupController(svc)
	r := gin.New()
	g := r.Group("/groups", asUser(alice))
	g.POST("", c.CreateGroup)
	g.POST("/:id/members", c.AddGroupMembers)
	g.PUT("/:id/members/:userId/role", c.UpdateMemberRole)
	g.DELETE("/:id/members/:userId", c.RemoveMember)
	g.POST("/:id/leave", c.LeaveGroup)
	g.GET("/:id/messages", c.GetGroupMessages)
	g.DELETE("/:id/messages/:messageId", c.DeleteGroupMessage)
	return r
}

func TestCreateGroupHandlerMultipart(t *testing.T) {
	svc := new(mockGroupService)
	avatar := mock.MatchedBy(func(fh *multipart.FileHeader) bool { return fh != nil && fh.Filename == "logo.png" })
	svc.On("CreateGroup", mock.Anything, alice, "Class of 2010", "reunion", avatar, []int64{2, 3, 4}).
		Return(&dto.GroupDetailResponse{GroupResponse: dto.GroupResponse{ID: 11, Name: "Class of 2010"}, MyRole: "admin"}, nil).Once()
	r := newGroupRouter(svc)

	rec := doMultipart(t, r, "/groups",
		map[string][]string{"group_name": {"Class of 2010"}, "group_description": {"reunion"}, "member_ids": {"2,3", "4"}},
		[]formFile{{"avatar", "logo.png", []byte("png")}},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	var group dto.GroupDetailResponse
	decodeSuccess(t, rec, &group)
	assert.Equal(t, int64(11), group.ID)
	assert.Equal(t, "admin", group.MyRole)
	svc.AssertExpectations(t)
}

func TestCreateGroupHandlerJSON(t *testing.T) {
	svc := new(mockGroupService)
	svc.On("CreateGroup", mock.Anything, alice, "Robotics", "", (*multipart.FileHeader)(nil), []int64{5}).
		Return(nil, apperrors.NewBadRequestError("you can only add your connections to a group")).Once()
	r := newGroupRouter(svc)

	rec := doJSON(t, r, http.MethodPost, "/groups", map[string]interface{}{"group_name": "Robotics", "member_ids": []int64{5}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "you can only add your connections to a group", decodeFailure(t, rec).Error.Message)
	svc.AssertExpectations(t)
}

func TestCreateGroupHandlerRejectsBadInput(t *testing.T) {
	svc := new(mockGroupService)
	r := newGroupRouter(svc)

	rec := doMultipart(t, r, "/groups", map[string][]string{"group_name": {"x"}, "member_ids": {"2,abc"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doMultipart(t, r, "/groups", map[string][]string{"member_ids": {"2"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGroupMembershipHandlers(t *testing.T) {
	svc := new(mockGroupService)
	svc.On("AddGroupMembers", mock.Anything, alice, int64(3), []int64{4, 5}).
		Return(&dto.AddGroupMembersResponse{AddedUserIDs: []int64{4}}, nil).Once()
	svc.On("UpdateMemberRole", mock.Anything, alice, int64(3), int64(4), "admin").Return(nil).Once()
	svc.On("RemoveMember", mock.Anything, alice, int64(3), int64(4)).Return(apperrors.NewForbiddenError("only group admins can perform this action")).Once()
	svc.On("LeaveGroup", mock.Anything, alice, int64(3)).Return(apperrors.NewBadRequestError("the group creator cannot leave the group")).Once()
	r := newGroupRouter(svc)

	rec := doJSON(t, r, http.MethodPost, "/groups/3/members", map[string][]int64{"member_ids": {4, 5}})
	require.Equal(t, http.StatusOK, rec.Code)
	var added dto.AddGroupMembersResponse
	decodeSuccess(t, rec, &added)
	assert.Equal(t, []int64{4}, added.AddedUserIDs)

	rec = doJSON(t, r, http.MethodPost, "/groups/3/members", map[string][]int64{"member_ids": {}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/groups/3/members/4/role", map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/groups/3/members/4/role", map[string]string{"role": "owner"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeFailure(t, rec).Error.Code)

	rec = doJSON(t, r, http.MethodDelete, "/groups/3/members/4", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/groups/3/leave", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestGroupMessageHandlers(t *testing.T) {
	svc := new(mockGroupService)
	svc.On("GetGroupMessages", mock.Anything, alice, int64(3), helpers.NewPage(1, 20)).
		Return(&dto.GroupMessageListResponse{Messages: []dto.GroupMessageResponse{{ID: 9}}}, nil).Once()
	svc.On("DeleteGroupMessage", mock.Anything, alice, int64(3), int64(9), models.DeleteForEveryone).Return(nil).Once()
	r := newGroupRouter(svc)

	rec := doJSON(t, r, http.MethodGet, "/groups/3/messages?size=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page dto.GroupMessageListResponse
	decodeSuccess(t, rec, &page)
	require.Len(t, page.Messages, 1)

	rec = doJSON(t, r, http.MethodDelete, "/groups/3/messages/9?delete_for=everyone", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/groups/3/messages/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}
