package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/response"
)

// SubscriptionHandler handles HTTP requests for subscription operations.
type SubscriptionHandler struct {
	service *application.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service *application.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// RegisterRoutes registers all subscription routes.
func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/transitions", h.GetTransitions)

	subs := r.Group("/subscriptions")
	{
		subs.POST("", h.CreateSubscription)
		subs.GET("/:id", h.GetSubscription)
		subs.POST("/:id/pending-renewal", h.transition(h.service.TransitionToPendingRenewal))
		subs.POST("/:id/pause", h.transition(h.service.TransitionToPaused))
		subs.POST("/:id/fail", h.transition(h.service.TransitionToFailed))
		subs.POST("/:id/cancel", h.transition(h.service.TransitionToCanceled))
		subs.POST("/:id/resume", h.transition(h.service.ResumeFromPaused))
		subs.POST("/:id/retry", h.transition(h.service.RetryFromFailed))
		subs.POST("/:id/complete-renewal", h.transition(h.service.CompleteRenewal))
	}
}

// GetTransitions handles GET /api/v1/transitions.
func (h *SubscriptionHandler) GetTransitions(c *gin.Context) {
	response.Success(c, h.service.Transitions())
}

// CreateSubscription handles POST /api/v1/subscriptions.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req application.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateSubscription(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetSubscription handles GET /api/v1/subscriptions/:id.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id := c.Param("id")

	result, err := h.service.GetSubscription(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.NotFound(c, "subscription not found: "+id)
		return
	}

	response.Success(c, result)
}

// transition adapts one named service operation to POST /api/v1/subscriptions/:id/<action>.
func (h *SubscriptionHandler) transition(op func(context.Context, string) (*application.SubscriptionDTO, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := op(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, result)
	}
}
