package handler

import (
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/pkg/pagination"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/api/projects")
	{
		projects.GET("", middleware.RequirePermission(string(permission.ViewProjects)), h.ListProjects)
		projects.GET("/:id", middleware.RequirePermission(string(permission.ViewProjects)), h.GetProject)
		projects.POST("", middleware.RequirePermission(string(permission.ManageProjects)), h.CreateProject)
		projects.PUT("/:id", middleware.RequirePermission(string(permission.ManageProjects)), h.UpdateProject)
		projects.DELETE("/:id", middleware.RequirePermission(string(permission.ManageProjects)), h.DeleteProject)

		projects.POST("/:id/phases", middleware.RequirePermission(string(permission.ManageProjects)), h.CreatePhase)

		projects.GET("/:id/materials", middleware.RequirePermission(string(permission.ViewMaterials)), h.ListMaterials)
		projects.POST("/:id/materials", middleware.RequirePermission(string(permission.ManageMaterials)), h.CreateMaterial)
	}

	phases := router.Group("/api/phases")
	{
		phases.PUT("/:id", middleware.RequirePermission(string(permission.ManageProjects)), h.UpdatePhase)
		phases.DELETE("/:id", middleware.RequirePermission(string(permission.ManageProjects)), h.DeletePhase)
		phases.POST("/:id/photos", middleware.RequirePermission(string(permission.ManageProjects)), h.AddPhasePhoto)
	}

	materials := router.Group("/api/materials")
	{
		materials.DELETE("/:id", middleware.RequirePermission(string(permission.ManageMaterials)), h.DeleteMaterial)
	}
}

// CreateProject creates a construction project owned by the caller
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProjectRequest  true  "Project Payload"
// @Success      201      {object}  response.Response{data=service.ProjectResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// GetProject returns one project with its phases and photos
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// ListProjects returns the caller's projects, paginated
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := pagination.Parse(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), c.GetString("userID"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, projects, params.Page, params.Limit, total))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Project deleted"}))
}

// CreatePhase appends a phase to a project
func (h *ProjectHandler) CreatePhase(c *gin.Context) {
	var req service.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	phase, err := h.projectService.CreatePhase(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, phase))
}

func (h *ProjectHandler) UpdatePhase(c *gin.Context) {
	var req service.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	phase, err := h.projectService.UpdatePhase(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, phase))
}

func (h *ProjectHandler) DeletePhase(c *gin.Context) {
	if err := h.projectService.DeletePhase(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Phase deleted"}))
}

// AddPhasePhoto attaches an externally stored photo to a phase
func (h *ProjectHandler) AddPhasePhoto(c *gin.Context) {
	var req service.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	photo, err := h.projectService.AddPhasePhoto(c.Request.Context(), c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, photo))
}

func (h *ProjectHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	material, err := h.projectService.CreateMaterial(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, material))
}

func (h *ProjectHandler) ListMaterials(c *gin.Context) {
	materials, err := h.projectService.ListMaterials(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, materials))
}

func (h *ProjectHandler) DeleteMaterial(c *gin.Context) {
	if err := h.projectService.DeleteMaterial(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Material deleted"}))
}
