package handler

import (
	"errors"
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	shareService service.ShareLinkService
}

func NewShareHandler(shareService service.ShareLinkService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public recipient-facing routes. No authentication: the link id is
	// the credential, plus the password for private links.
	shared := router.Group("/shared/:id")
	{
		shared.GET("", h.ResolveShare)
		shared.POST("/resolve", h.ResolveShareWithPassword)
		shared.GET("/comments", h.ListComments)
		shared.POST("/comments", h.AddComment)
	}

	// Owner-facing management routes
	projects := router.Group("/api/projects/:id/shares")
	{
		projects.POST("", middleware.RequirePermission(string(permission.ShareProjects)), h.CreateShare)
		projects.GET("", middleware.RequirePermission(string(permission.ShareProjects)), h.ListShares)
	}

	router.DELETE("/api/shares/:id", middleware.RequirePermission(string(permission.ShareProjects)), h.RevokeShare)
}

// shareErrorStatus maps share sentinel errors onto HTTP status codes
func shareErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrShareNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrShareExpired):
		return http.StatusGone
	case errors.Is(err, model.ErrShareUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrShareForbidden):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// CreateShare creates a share link for a project
// @Summary      Create share link
// @Description  Creates a scoped, time-limited share link. Private links require a password.
// @Tags         sharing
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Project ID"
// @Param        payload  body      service.CreateShareLinkRequest   true  "Share Payload"
// @Success      201      {object}  response.Response{data=service.ShareLinkResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/projects/{id}/shares [post]
func (h *ShareHandler) CreateShare(c *gin.Context) {
	var req service.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	link, err := h.shareService.Create(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, link))
}

// ListShares returns every share link of a project, newest first
func (h *ShareHandler) ListShares(c *gin.Context) {
	links, err := h.shareService.ListForProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, links))
}

// RevokeShare deletes a share link. Only the creator may revoke.
func (h *ShareHandler) RevokeShare(c *gin.Context) {
	if err := h.shareService.Revoke(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Share link revoked"}))
}

// ResolveShare returns the shared project view for a link. Private links
// take the password in the ?password= query parameter.
// @Summary      Resolve share link
// @Tags         sharing
// @Produce      json
// @Param        id        path      string  true   "Share Link ID"
// @Param        password  query     string  false  "Password for private links"
// @Success      200       {object}  response.Response{data=service.SharedProjectView}
// @Failure      401       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Failure      410       {object}  response.Response
// @Router       /shared/{id} [get]
func (h *ShareHandler) ResolveShare(c *gin.Context) {
	view, err := h.shareService.Resolve(c.Request.Context(), c.Param("id"), c.Query("password"))
	if err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// ResolveShareWithPassword is the POST variant so private-link passwords
// stay out of URLs and access logs
func (h *ShareHandler) ResolveShareWithPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	view, err := h.shareService.Resolve(c.Request.Context(), c.Param("id"), req.Password)
	if err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// AddComment appends a recipient comment to a live share link
func (h *ShareHandler) AddComment(c *gin.Context) {
	var req service.AddShareCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.shareService.AddComment(c.Request.Context(), c.Param("id"), req); err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "Comment added"}))
}

// ListComments returns a link's comments, most recent first. The thread is
// gated exactly like the shared view: private links take the password in
// the ?password= query parameter.
func (h *ShareHandler) ListComments(c *gin.Context) {
	comments, err := h.shareService.ListComments(c.Request.Context(), c.Param("id"), c.Query("password"))
	if err != nil {
		status := shareErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, comments))
}
