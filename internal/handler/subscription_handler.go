package handler

import (
	"errors"
	"io"
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	billing := router.Group("/api/billing")
	{
		// Pricing page is public
		billing.GET("/plans", h.ListPlans)
		billing.GET("/subscription", middleware.RequirePermission(string(permission.ManageBilling)), h.GetSubscription)
		billing.POST("/checkout", middleware.RequirePermission(string(permission.ManageBilling)), h.StartCheckout)
		// The gateway authenticates with an HMAC signature, not a JWT
		billing.POST("/webhook", h.HandleWebhook)
	}
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plans))
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sub))
}

// StartCheckout returns the hosted gateway URL for the chosen plan
// @Summary      Start checkout
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CheckoutRequest  true  "Checkout Payload"
// @Success      200      {object}  response.Response{data=service.CheckoutResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/billing/checkout [post]
func (h *SubscriptionHandler) StartCheckout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	checkout, err := h.subscriptionService.StartCheckout(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, checkout))
}

// HandleWebhook processes gateway callbacks. The raw body is needed for
// signature verification, so it is read before any JSON binding.
func (h *SubscriptionHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unreadable payload"))
		return
	}

	signature := c.GetHeader("X-Webhook-Signature")
	if err := h.subscriptionService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, service.ErrWebhookSignature) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"received": true}))
}
