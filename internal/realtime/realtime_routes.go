package realtime

import (
	"driftpro/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	ws := r.Group("/realtime")
	ws.Use(middleware.WebsocketAuthMiddleware())
	{
		ws.GET("", h.Serve)
	}
}
