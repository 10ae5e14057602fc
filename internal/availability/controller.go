package availability

import (
	"errors"
	"net/http"
	"time"

	"roomly/internal/shared/middleware"
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

// CheckStay handles GET /api/v1/rooms/:id/availability?checkin=...&checkout=...
func (c *Controller) CheckStay(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid room ID", nil, nil)
		return
	}

	checkin, err := time.Parse(dateLayout, ctx.Query("checkin"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid checkin date, expected YYYY-MM-DD", nil, nil)
		return
	}
	checkout, err := time.Parse(dateLayout, ctx.Query("checkout"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid checkout date, expected YYYY-MM-DD", nil, nil)
		return
	}

	stay, err := c.service.CheckStay(ctx.Request.Context(), roomID, checkin, checkout)
	if err != nil {
		if errors.Is(err, ErrInvalidStay) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Check-out must be after check-in", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to check availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", stay, nil)
}

// GetHold handles GET /api/v1/holds/:id
func (c *Controller) GetHold(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	hold, err := c.service.ValidateHold(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		respondHoldError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold retrieved successfully", hold, nil)
}

// ExtendHold handles POST /api/v1/holds/:id/extend
func (c *Controller) ExtendHold(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req struct {
		TTLSeconds int `json:"ttl_seconds" binding:"required,min=60,max=3600"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid extension request", nil, err.Error())
		return
	}

	err := c.service.ExtendHold(ctx.Request.Context(), ctx.Param("id"), userID, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		respondHoldError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold extended successfully", nil, nil)
}

// ReleaseHold handles DELETE /api/v1/holds/:id
func (c *Controller) ReleaseHold(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	// Ownership check before the release touches any counters
	if _, err := c.service.ValidateHold(ctx.Request.Context(), ctx.Param("id"), userID); err != nil {
		respondHoldError(ctx, err)
		return
	}

	if err := c.service.ReleaseHold(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to release hold", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Hold released successfully", nil, nil)
}

func respondHoldError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrHoldNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Hold not found or expired", nil, nil)
	case errors.Is(err, ErrHoldNotOwned):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Hold belongs to another user", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Hold operation failed", nil, err.Error())
	}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func SetupAvailabilityRoutes(router *gin.RouterGroup, controller *Controller) {
	rooms := router.Group("/rooms")
	{
		rooms.GET("/:id/availability", controller.CheckStay) // GET /api/v1/rooms/:id/availability
	}

	holds := router.Group("/holds")
	holds.Use(middleware.JWTAuth())
	{
		holds.GET("/:id", controller.GetHold)            // GET /api/v1/holds/:id
		holds.POST("/:id/extend", controller.ExtendHold) // POST /api/v1/holds/:id/extend
		holds.DELETE("/:id", controller.ReleaseHold)     // DELETE /api/v1/holds/:id
	}
}
