package promotions

import (
	"errors"
	"net/http"
	"time"

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

// CreatePromotion handles POST /api/v1/admin/properties/:id/promotions
func (c *Controller) CreatePromotion(ctx *gin.Context) {
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

	var req CreatePromotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	promotion, err := c.service.CreatePromotion(ctx.Request.Context(), propertyID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWindow):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid validity window", nil, nil)
		case errors.Is(err, ErrCodeTaken):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Promotion code already exists", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create promotion", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Promotion created successfully", promotion, nil)
}

// GetPromotionsByProperty handles GET /api/v1/admin/properties/:id/promotions
func (c *Controller) GetPromotionsByProperty(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	promotions, err := c.service.GetPromotionsByProperty(ctx.Request.Context(), propertyID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get promotions", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promotions retrieved successfully", promotions, nil)
}

// ValidateCode handles POST /api/v1/promotions/validate
// Guests preview a code against a room and subtotal before booking.
func (c *Controller) ValidateCode(ctx *gin.Context) {
	var req struct {
		Code          string `json:"code" binding:"required"`
		RoomID        string `json:"room_id" binding:"required,uuid"`
		SubtotalMinor int64  `json:"subtotal_minor" binding:"required,min=1"`
		Currency      string `json:"currency" binding:"required,len=3"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	roomID, _ := uuid.Parse(req.RoomID)
	subtotal := pricing.NewMoney(req.SubtotalMinor, req.Currency)

	discount, _, err := c.service.Resolve(ctx.Request.Context(), req.Code, roomID, time.Now(), subtotal)
	if err != nil {
		switch {
		case errors.Is(err, ErrPromotionNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promotion not found", nil, nil)
		case errors.Is(err, pricing.ErrPromotionExpired):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Promotion has expired", nil, nil)
		case errors.Is(err, pricing.ErrPromotionExhausted):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Promotion usage limit reached", nil, nil)
		case errors.Is(err, pricing.ErrPromotionNotApplicable):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Promotion does not apply to this room", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate promotion", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promotion is valid", discount, nil)
}

// UpdatePromotion handles PUT /api/v1/admin/promotions/:id
func (c *Controller) UpdatePromotion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid promotion ID", nil, nil)
		return
	}

	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdatePromotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	promotion, err := c.service.UpdatePromotion(ctx.Request.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPromotionNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promotion not found", nil, nil)
		case errors.Is(err, ErrInvalidWindow):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid validity window", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update promotion", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promotion updated successfully", promotion, nil)
}

// DeletePromotion handles DELETE /api/v1/admin/promotions/:id
func (c *Controller) DeletePromotion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid promotion ID", nil, nil)
		return
	}

	if err := c.service.DeletePromotion(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPromotionNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promotion not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete promotion", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promotion deleted successfully", nil, nil)
}
