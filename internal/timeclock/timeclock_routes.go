package timeclock

import (
	"driftpro/internal/middleware"
	"driftpro/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
) {
	timeclock := r.Group("/timeclock")
	timeclock.Use(middleware.AuthMiddleware())
	{
		timeclock.POST("/clock-in", h.ClockIn)
		timeclock.POST("/clock-out", h.ClockOut)
		timeclock.GET("/status", h.Status)
		timeclock.GET("/entries", middleware.RBACAuthorize(rbacService, "timeclock", "read"), h.GetAll)
	}
}
