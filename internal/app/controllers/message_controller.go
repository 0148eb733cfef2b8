package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// MessageController handles direct messages between alumni
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// SendMessage sends a direct message with optional attachments
// @Summary Send direct message
// @Description Requires an accepted connection or a mentorship with the receiver. Text or at least one attachment is required.
// @Tags messages
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param receiver_id formData int true "Receiver ID"
// @Param message_text formData string false "Message text"
// @Param attachments formData file false "Up to 5 files of 10MB each"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Message sent"
// @Failure 400 {object} dto.ErrorResponse "Empty message or too many attachments"
// @Failure 403 {object} dto.ErrorResponse "Not connected"
// @Failure 404 {object} dto.ErrorResponse "Receiver not found"
// @Router /messages/send [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.messageService.SendMessage(ctx.Request.Context(), p, req.ReceiverID, req.MessageText, formFiles(ctx, "attachments"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Message sent"))
}

// GetConversations lists one summary row per conversation partner
// @Summary List conversations
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationSummaryResponse}
// @Router /messages/conversations [get]
func (c *MessageController) GetConversations(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	resp, err := c.messageService.GetConversations(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetUnreadCount returns the number of unread direct messages
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /messages/unread-count [get]
func (c *MessageController) GetUnreadCount(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	count, err := c.messageService.GetUnreadCount(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{UnreadCount: count}))
}

// GetConversation returns the message history with one user
// @Summary Get conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Partner ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not connected"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /messages/conversation/{userId} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	otherID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.messageService.GetConversation(ctx.Request.Context(), p, otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MarkConversationRead marks every message from userId to the caller as read
// @Summary Mark conversation read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Partner ID"
// @Success 200 {object} dto.APIResponse{data=dto.AffectedResponse}
// @Router /messages/conversation/{userId}/read [put]
func (c *MessageController) MarkConversationRead(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	otherID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	n, err := c.messageService.MarkConversationRead(ctx.Request.Context(), p, otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AffectedResponse{Affected: n}, "Conversation marked as read"))
}

// DeleteMessage hides a message for the caller or removes it for everyone
// @Summary Delete message
// @Description delete_for=everyone is limited to the sender within the configured window
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param delete_for query string false "self (default) or everyone"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Window elapsed"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{id} [delete]
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var q dto.DeleteMessageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.messageService.DeleteMessage(ctx.Request.Context(), p, id, models.DeleteScope(q.Scope())); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Message deleted"))
}
