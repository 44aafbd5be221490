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

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/api/documents")
	{
		docs.GET("", middleware.RequirePermission(string(permission.ViewDocuments)), h.ListDocuments)
		docs.POST("", middleware.RequirePermission(string(permission.ManageDocuments)), h.AddDocument)
		docs.DELETE("/:id", middleware.RequirePermission(string(permission.ManageDocuments)), h.DeleteDocument)
	}
}

// AddDocument registers externally stored file metadata
func (h *DocumentHandler) AddDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.AddDocument(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// ListDocuments returns document metadata, optionally filtered by
// ?project_id=
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	params := pagination.Parse(c)

	docs, total, err := h.documentService.ListDocuments(c.Request.Context(), c.Query("project_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, docs, params.Page, params.Limit, total))
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Document deleted"}))
}
