package handler

import (
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the permission-driven UI layout: which widgets
// and sidebar entries the caller's role can see.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard/layout", middleware.RequireAuth(), h.GetLayout)
}

// GetLayout returns widget and sidebar descriptors for the caller's role
// @Summary      Dashboard layout
// @Description  Returns the dashboard widgets and sidebar entries visible to the caller's role.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/dashboard/layout [get]
func (h *DashboardHandler) GetLayout(c *gin.Context) {
	codes, err := middleware.GetPermissionsForRoleFromDB(c.GetString("userRole"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load permissions"))
		return
	}

	perms := permission.NewSet(codes)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"widgets": permission.WidgetsFor(perms),
		"sidebar": permission.SidebarFor(perms),
	}))
}
