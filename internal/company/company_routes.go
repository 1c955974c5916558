package company

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
	companies := r.Group("/company")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("", middleware.RBACAuthorize(rbacService, "company", "read"), h.Get)
		companies.PUT("", middleware.RBACAuthorize(rbacService, "company", "update"), h.Update)
		companies.POST("/enrich", middleware.RBACAuthorize(rbacService, "company", "update"), h.Enrich)
	}

	registry := r.Group("/registry")
	registry.Use(middleware.AuthMiddleware())
	{
		registry.GET("/enheter/:orgNumber", h.LookupRegistry)
		registry.GET("/enheter", h.SearchRegistry)
	}
}
