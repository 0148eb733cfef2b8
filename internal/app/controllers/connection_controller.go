package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// ConnectionController handles connection requests between alumni
type ConnectionController struct {
	connectionService services.ConnectionService
}

// NewConnectionController creates a new ConnectionController
func NewConnectionController(connectionService services.ConnectionService) *ConnectionController {
	return &ConnectionController{connectionService: connectionService}
}

// SendRequest sends a connection request
// @Summary Send connection request
// @Description Creates a pending connection request from the caller to receiver_id. Administrators cannot send or receive requests.
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendConnectionRequest true "Receiver"
// @Success 201 {object} dto.APIResponse{data=dto.ConnectionCreatedResponse} "Connection request sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or request to self"
// @Failure 403 {object} dto.ErrorResponse "Administrators cannot connect"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Request already exists or already connected"
// @Router /connections/send [post]
func (c *ConnectionController) SendRequest(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.SendConnectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.connectionService.SendRequest(ctx.Request.Context(), p, req.ReceiverID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Connection request sent"))
}

// GetConnectionStatus returns the caller-relative status towards another user
// @Summary Get connection status
// @Description Returns self, admin, admin_user, accepted, sent, received or none, with an optional mentorship annotation
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionStatusResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /connections/status/{userId} [get]
func (c *ConnectionController) GetConnectionStatus(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	targetID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.connectionService.GetConnectionStatus(ctx.Request.Context(), p, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMyConnections lists accepted connections
// @Summary List my connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionListResponse}
// @Router /connections [get]
func (c *ConnectionController) GetMyConnections(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	resp, err := c.connectionService.GetMyConnections(ctx.Request.Context(), p, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetConnectionsWithDetails lists accepted connections with education and work
// @Summary List my connections with profile details
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionDetailListResponse}
// @Router /connections/details [get]
func (c *ConnectionController) GetConnectionsWithDetails(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	resp, err := c.connectionService.GetConnectionsWithDetails(ctx.Request.Context(), p, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetPendingRequests lists pending requests
// @Summary List pending requests
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param direction query string false "received (default) or sent"
// @Success 200 {object} dto.APIResponse{data=[]dto.ConnectionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid direction"
// @Router /connections/pending [get]
func (c *ConnectionController) GetPendingRequests(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	resp, err := c.connectionService.GetPendingRequests(ctx.Request.Context(), p, ctx.Query("direction"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// connectionAction runs fn with the caller and the :id path parameter
func (c *ConnectionController) connectionAction(ctx *gin.Context, message string, fn func(ctx *gin.Context, id int64) error) {
	if _, ok := middleware.MustPrincipal(ctx); !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := fn(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, message))
}

// AcceptRequest accepts a pending request addressed to the caller
// @Summary Accept connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not the receiver"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Already accepted"
// @Router /connections/{id}/accept [put]
func (c *ConnectionController) AcceptRequest(ctx *gin.Context) {
	c.connectionAction(ctx, "Connection request accepted", func(ctx *gin.Context, id int64) error {
		p, _ := middleware.GetPrincipal(ctx)
		return c.connectionService.AcceptRequest(ctx.Request.Context(), p, id)
	})
}

// RejectRequest rejects a pending request addressed to the caller
// @Summary Reject connection request
// @Tags connections
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.APIResponse
// @Router /connections/{id}/reject [put]
func (c *ConnectionController) RejectRequest(ctx *gin.Context) {
	c.connectionAction(ctx, "Connection request rejected", func(ctx *gin.Context, id int64) error {
		p, _ := middleware.GetPrincipal(ctx)
		return c.connectionService.RejectRequest(ctx.Request.Context(), p, id)
	})
}

// RespondToRequest accepts or rejects through one endpoint
// @Summary Respond to connection request
// @Tags connections
// @Accept json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Param request body dto.RespondConnectionRequest true "accepted or rejected"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /connections/{id}/respond [put]
func (c *ConnectionController) RespondToRequest(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondConnectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.connectionService.RespondToRequest(ctx.Request.Context(), p, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Connection request "+req.Status))
}

// RemoveConnection deletes an accepted connection
// @Summary Remove connection
// @Tags connections
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.APIResponse
// @Router /connections/{id} [delete]
func (c *ConnectionController) RemoveConnection(ctx *gin.Context) {
	c.connectionAction(ctx, "Connection removed", func(ctx *gin.Context, id int64) error {
		p, _ := middleware.GetPrincipal(ctx)
		return c.connectionService.RemoveConnection(ctx.Request.Context(), p, id)
	})
}

// CancelRequest withdraws a pending request the caller sent
// @Summary Cancel connection request
// @Tags connections
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.APIResponse
// @Router /connections/request/{id}/cancel [delete]
func (c *ConnectionController) CancelRequest(ctx *gin.Context) {
	c.connectionAction(ctx, "Connection request cancelled", func(ctx *gin.Context, id int64) error {
		p, _ := middleware.GetPrincipal(ctx)
		return c.connectionService.CancelRequest(ctx.Request.Context(), p, id)
	})
}
