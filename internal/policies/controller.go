package policies

import (
	"errors"
	"net/http"

	"roomly/internal/pricing"
	"roomly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	return userID, err == nil
}

// CreatePaymentRule handles POST /api/v1/admin/payment-rules
func (c *Controller) CreatePaymentRule(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreatePaymentRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rule, err := c.service.CreatePaymentRule(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRuleShape),
			errors.Is(err, pricing.ErrScheduleDoesNotSumToTotal),
			errors.Is(err, pricing.ErrInvalidDueTiming):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid payment rule", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create payment rule", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment rule created successfully", rule, nil)
}

// GetPaymentRule handles GET /api/v1/admin/payment-rules/:id
func (c *Controller) GetPaymentRule(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rule ID", nil, nil)
		return
	}

	rule, err := c.service.GetPaymentRule(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment rule not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payment rule", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment rule retrieved successfully", rule, nil)
}

// DeactivatePaymentRule handles DELETE /api/v1/admin/payment-rules/:id
func (c *Controller) DeactivatePaymentRule(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rule ID", nil, nil)
		return
	}

	if err := c.service.DeactivatePaymentRule(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment rule not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate payment rule", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment rule deactivated", nil, nil)
}

// CreateCancellationPolicy handles POST /api/v1/admin/properties/:id/cancellation-policy
func (c *Controller) CreateCancellationPolicy(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateCancellationPolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	policy, err := c.service.CreateCancellationPolicy(ctx.Request.Context(), propertyID, userID, req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPolicy) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid policy tiers", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create cancellation policy", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Cancellation policy created successfully", policy, nil)
}

// GetActivePolicy handles GET /api/v1/properties/:id/cancellation-policy
func (c *Controller) GetActivePolicy(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	policy, err := c.service.GetActivePolicy(ctx.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "No active cancellation policy", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get cancellation policy", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation policy retrieved successfully", policy.ToResponse(), nil)
}

// DeactivateCancellationPolicy handles DELETE /api/v1/admin/cancellation-policies/:id
func (c *Controller) DeactivateCancellationPolicy(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	if err := c.service.DeactivateCancellationPolicy(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cancellation policy not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate policy", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation policy deactivated", nil, nil)
}
