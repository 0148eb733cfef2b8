package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/controllers"
	"github.com/yigit/alumnihub/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Connection   *controllers.ConnectionController
	Message      *controllers.MessageController
	Group        *controllers.GroupController
	Notification *controllers.NotificationController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Status is answered for administrators too (admin / admin_user)
	authenticated.GET("/connections/status/:userId", c.Connection.GetConnectionStatus)
	// Listings answer administrators with empty results
	authenticated.GET("/connections", c.Connection.GetMyConnections)
	authenticated.GET("/connections/details", c.Connection.GetConnectionsWithDetails)
	authenticated.GET("/connections/pending", c.Connection.GetPendingRequests)
	authenticated.GET("/groups", c.Group.GetMyGroups)

	// Everything else is between alumni
	peers := authenticated.Group("")
	peers.Use(authMiddleware.PeerOnly())

	connections := peers.Group("/connections")
	{
		connections.POST("/send", c.Connection.SendRequest)
		connections.PUT("/:id/accept", c.Connection.AcceptRequest)
		connections.PUT("/:id/reject", c.Connection.RejectRequest)
		connections.PUT("/:id/respond", c.Connection.RespondToRequest)
		connections.DELETE("/:id", c.Connection.RemoveConnection)
		connections.DELETE("/request/:id/cancel", c.Connection.CancelRequest)
	}

	messages := peers.Group("/messages")
	{
		messages.POST("/send", c.Message.SendMessage)
		messages.GET("/conversations", c.Message.GetConversations)
		messages.GET("/unread-count", c.Message.GetUnreadCount)
		messages.GET("/conversation/:userId", c.Message.GetConversation)
		messages.PUT("/conversation/:userId/read", c.Message.MarkConversationRead)
		messages.DELETE("/:id", c.Message.DeleteMessage)
	}

	groups := peers.Group("/groups")
	{
		groups.POST("", c.Group.CreateGroup)
		groups.GET("/:id", c.Group.GetGroup)
		groups.DELETE("/:id", c.Group.DeleteGroup)
		groups.POST("/:id/members", c.Group.AddGroupMembers)
		groups.DELETE("/:id/members/:userId", c.Group.RemoveMember)
		groups.PUT("/:id/members/:userId/role", c.Group.UpdateMemberRole)
		groups.POST("/:id/leave", c.Group.LeaveGroup)
		groups.POST("/:id/messages", c.Group.SendGroupMessage)
		groups.GET("/:id/messages", c.Group.GetGroupMessages)
		groups.DELETE("/:id/messages/:messageId", c.Group.DeleteGroupMessage)
	}

	notifications := peers.Group("/notifications")
	{
		notifications.GET("", c.Notification.GetNotifications)
		notifications.GET("/unread-count", c.Notification.GetUnreadCount)
		notifications.PUT("/read-all", c.Notification.MarkAllAsRead)
		notifications.PUT("/:id/read", c.Notification.MarkAsRead)
		notifications.DELETE("", c.Notification.DeleteAllNotifications)
		notifications.DELETE("/:id", c.Notification.DeleteNotification)
	}
}
