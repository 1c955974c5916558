package chat

import (
	"driftpro/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
) {
	chats := r.Group("/chats")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.GET("", h.GetAll)
		chats.POST("", h.Create)
		chats.GET("/:id", h.GetById)
		chats.GET("/:id/messages", h.GetMessages)
		chats.POST("/:id/messages", h.SendMessage)
		chats.PUT("/:id/read", h.MarkRead)
		chats.PUT("/:id/messages/:messageId/reaction", h.React)
		chats.DELETE("/:id/messages/:messageId", h.DeleteMessage)
	}
}
