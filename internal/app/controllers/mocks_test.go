package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

// asUser stands in for JWTAuth in handler tests
func asUser(p models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, p.ID)
		c.Set(middleware.ContextRoleType, string(p.Role))
		if p.SchoolID != nil {
			c.Set(middleware.ContextSchoolID, *p.SchoolID)
		}
		c.Next()
	}
}

var alice = models.Principal{ID: 1, Role: models.RoleAlumni}

func doJSON(t *testing.T, r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type formFile struct {
	field, name string
	content     []byte
}

func doMultipart(t *testing.T, r *gin.Engine, target string, fields map[string][]string, files []formFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	if data != nil {
		resp.Data = data
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

type mockAuthenticator struct{ mock.Mock }

func (m *mockAuthenticator) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

type mockConnectionService struct{ mock.Mock }

func (m *mockConnectionService) SendRequest(ctx context.Context, sender models.Principal, receiverID int64) (*dto.ConnectionCreatedResponse, error) {
	args := m.Called(ctx, sender, receiverID)
	resp, _ := args.Get(0).(*dto.ConnectionCreatedResponse)
	return resp, args.Error(1)
}

func (m *mockConnectionService) GetConnectionStatus(ctx context.Context, current models.Principal, targetID int64) (*dto.ConnectionStatusResponse, error) {
	args := m.Called(ctx, current, targetID)
	resp, _ := args.Get(0).(*dto.ConnectionStatusResponse)
	return resp, args.Error(1)
}

func (m *mockConnectionService) AcceptRequest(ctx context.Context, responder models.Principal, connectionID int64) error {
	return m.Called(ctx, responder, connectionID).Error(0)
}

func (m *mockConnectionService) RejectRequest(ctx context.Context, receiver models.Principal, connectionID int64) error {
	return m.Called(ctx, receiver, connectionID).Error(0)
}

func (m *mockConnectionService) CancelRequest(ctx context.Context, sender models.Principal, connectionID int64) error {
	return m.Called(ctx, sender, connectionID).Error(0)
}

func (m *mockConnectionService) RemoveConnection(ctx context.Context, actor models.Principal, connectionID int64) error {
	return m.Called(ctx, actor, connectionID).Error(0)
}

func (m *mockConnectionService) RespondToRequest(ctx context.Context, receiver models.Principal, connectionID int64, decision string) error {
	return m.Called(ctx, receiver, connectionID, decision).Error(0)
}

func (m *mockConnectionService) GetMyConnections(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionListResponse, error) {
	args := m.Called(ctx, p, page)
	resp, _ := args.Get(0).(*dto.ConnectionListResponse)
	return resp, args.Error(1)
}

func (m *mockConnectionService) GetPendingRequests(ctx context.Context, p models.Principal, direction string) ([]dto.ConnectionResponse, error) {
	args := m.Called(ctx, p, direction)
	resp, _ := args.Get(0).([]dto.ConnectionResponse)
	return resp, args.Error(1)
}

func (m *mockConnectionService) GetConnectionsWithDetails(ctx context.Context, p models.Principal, page helpers.Page) (*dto.ConnectionDetailListResponse, error) {
	args := m.Called(ctx, p, page)
	resp, _ := args.Get(0).(*dto.ConnectionDetailListResponse)
	return resp, args.Error(1)
}

type mockMessageService struct{ mock.Mock }

func (m *mockMessageService) SendMessage(ctx context.Context, sender models.Principal, receiverID int64, text string, files []*multipart.FileHeader) (*dto.MessageResponse, error) {
	args := m.Called(ctx, sender, receiverID, text, files)
	resp, _ := args.Get(0).(*dto.MessageResponse)
	return resp, args.Error(1)
}

func (m *mockMessageService) GetConversation(ctx context.Context, viewer models.Principal, otherID int64) (*dto.ConversationResponse, error) {
	args := m.Called(ctx, viewer, otherID)
	resp, _ := args.Get(0).(*dto.ConversationResponse)
	return resp, args.Error(1)
}

func (m *mockMessageService) DeleteMessage(ctx context.Context, actor models.Principal, messageID int64, scope models.DeleteScope) error {
	return m.Called(ctx, actor, messageID, scope).Error(0)
}

func (m *mockMessageService) GetConversations(ctx context.Context, viewer models.Principal) ([]dto.ConversationSummaryResponse, error) {
	args := m.Called(ctx, viewer)
	resp, _ := args.Get(0).([]dto.ConversationSummaryResponse)
	return resp, args.Error(1)
}

func (m *mockMessageService) GetUnreadCount(ctx context.Context, viewer models.Principal) (int64, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageService) MarkConversationRead(ctx context.Context, viewer models.Principal, otherID int64) (int64, error) {
	args := m.Called(ctx, viewer, otherID)
	return args.Get(0).(int64), args.Error(1)
}

type mockGroupService struct{ mock.Mock }

func (m *mockGroupService) CreateGroup(ctx context.Context, creator models.Principal, name, description string, avatar *multipart.FileHeader, memberIDs []int64) (*dto.GroupDetailResponse, error) {
	args := m.Called(ctx, creator, name, description, avatar, memberIDs)
	resp, _ := args.Get(0).(*dto.GroupDetailResponse)
	return resp, args.Error(1)
}

func (m *mockGroupService) AddGroupMembers(ctx context.Context, p models.Principal, groupID int64, memberIDs []int64) (*dto.AddGroupMembersResponse, error) {
	args := m.Called(ctx, p, groupID, memberIDs)
	resp, _ := args.Get(0).(*dto.AddGroupMembersResponse)
	return resp, args.Error(1)
}

func (m *mockGroupService) RemoveMember(ctx context.Context, p models.Principal, groupID, targetID int64) error {
	return m.Called(ctx, p, groupID, targetID).Error(0)
}

func (m *mockGroupService) UpdateMemberRole(ctx context.Context, p models.Principal, groupID, targetID int64, role string) error {
	return m.Called(ctx, p, groupID, targetID, role).Error(0)
}

func (m *mockGroupService) LeaveGroup(ctx context.Context, p models.Principal, groupID int64) error {
	return m.Called(ctx, p, groupID).Error(0)
}

func (m *mockGroupService) DeleteGroup(ctx context.Context, p models.Principal, groupID int64) error {
	return m.Called(ctx, p, groupID).Error(0)
}

func (m *mockGroupService) SendGroupMessage(ctx context.Context, p models.Principal, groupID int64, text string, files []*multipart.FileHeader) (*dto.GroupMessageResponse, error) {
	args := m.Called(ctx, p, groupID, text, files)
	resp, _ := args.Get(0).(*dto.GroupMessageResponse)
	return resp, args.Error(1)
}

func (m *mockGroupService) GetGroupMessages(ctx context.Context, p models.Principal, groupID int64, page helpers.Page) (*dto.GroupMessageListResponse, error) {
	args := m.Called(ctx, p, groupID, page)
	resp, _ := args.Get(0).(*dto.GroupMessageListResponse)
	return resp, args.Error(1)
}

func (m *mockGroupService) DeleteGroupMessage(ctx context.Context, p models.Principal, groupID, messageID int64, scope models.DeleteScope) error {
	return m.Called(ctx, p, groupID, messageID, scope).Error(0)
}

func (m *mockGroupService) GetMyGroups(ctx context.Context, p models.Principal) ([]dto.GroupSummaryResponse, error) {
	args := m.Called(ctx, p)
	resp, _ := args.Get(0).([]dto.GroupSummaryResponse)
	return resp, args.Error(1)
}

func (m *mockGroupService) GetGroup(ctx context.Context, p models.Principal, groupID int64) (*dto.GroupDetailResponse, error) {
	args := m.Called(ctx, p, groupID)
	resp, _ := args.Get(0).(*dto.GroupDetailResponse)
	return resp, args.Error(1)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) Notify(ctx context.Context, in services.NotifyInput) {
	m.Called(ctx, in)
}

func (m *mockNotificationService) Email(ctx context.Context, to, template string, data map[string]interface{}) {
	m.Called(ctx, to, template, data)
}

func (m *mockNotificationService) GetNotifications(ctx context.Context, p models.Principal, unreadOnly bool, page helpers.Page) (*dto.NotificationListResponse, error) {
	args := m.Called(ctx, p, unreadOnly, page)
	resp, _ := args.Get(0).(*dto.NotificationListResponse)
	return resp, args.Error(1)
}

func (m *mockNotificationService) GetUnreadCount(ctx context.Context, p models.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) MarkAsRead(ctx context.Context, p models.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockNotificationService) MarkAllAsRead(ctx context.Context, p models.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) DeleteNotification(ctx context.Context, p models.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockNotificationService) DeleteAllNotifications(ctx context.Context, p models.Principal, readOnly bool) (int64, error) {
	args := m.Called(ctx, p, readOnly)
	return args.Get(0).(int64), args.Error(1)
}
