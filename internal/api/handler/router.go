package handler

import (
	"grievance/backend/internal/rbac"

	"github.com/gin-gonic/gin"
)

// NewRouter registers all routes on a gin engine with the default logger
// and recovery middleware.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", h.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.RequireSession(), h.Logout)
	authGroup.GET("/me", h.RequireSession(), h.Me)

	g := api.Group("/grievances", h.RequireSession())
	g.POST("", h.Authorize(rbac.ActionSubmit), h.SubmitGrievance)
	g.GET("", h.Authorize(rbac.ActionListAll), h.ListGrievances)
	g.GET("/my", h.Authorize(rbac.ActionListOwn), h.ListMyGrievances)
	g.GET("/stats", h.Authorize(rbac.ActionViewStats), h.GetStats)
	g.GET("/department/:dept", h.Authorize(rbac.ActionListDept), h.ListDepartmentGrievances)
	g.GET("/:id", h.GetGrievance)
	g.PUT("/:id/status", h.Authorize(rbac.ActionUpdateStatus), h.UpdateStatus)
	g.PUT("/:id/classification", h.Authorize(rbac.ActionClassify), h.OverrideClassification)
	g.POST("/:id/reclassify", h.Authorize(rbac.ActionClassify), h.Reclassify)

	return r
}
