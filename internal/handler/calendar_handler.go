package handler

import (
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarService service.CalendarService
}

func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/api/events")
	{
		events.GET("", middleware.RequirePermission(string(permission.ViewCalendar)), h.ListEvents)
		events.POST("", middleware.RequirePermission(string(permission.ManageCalendar)), h.CreateEvent)
		events.PUT("/:id", middleware.RequirePermission(string(permission.ManageCalendar)), h.UpdateEvent)
		events.DELETE("/:id", middleware.RequirePermission(string(permission.ManageCalendar)), h.DeleteEvent)
	}
}

// CreateEvent schedules an event and emails its attendees
// @Summary      Create calendar event
// @Tags         calendar
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEventRequest  true  "Event Payload"
// @Success      201      {object}  response.Response{data=service.EventResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.calendarService.CreateEvent(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, event))
}

// ListEvents returns events visible to the caller inside a date window.
// ?from= and ?to= take YYYY-MM-DD; the default window is the current month.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	events, err := h.calendarService.ListEvents(c.Request.Context(), c.GetString("userID"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.calendarService.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.calendarService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Event deleted"}))
}
