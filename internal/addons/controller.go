package addons

import (
	"errors"
	"net/http"

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

// CreateAddon handles POST /api/v1/admin/properties/:id/addons
func (c *Controller) CreateAddon(ctx *gin.Context) {
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

	var req CreateAddonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	addon, err := c.service.CreateAddon(ctx.Request.Context(), propertyID, userID, req)
	if err != nil {
		if errors.Is(err, ErrRoomNotInScope) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Room does not belong to property", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create addon", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Addon created successfully", addon, nil)
}

// GetAddonsByProperty handles GET /api/v1/properties/:id/addons
func (c *Controller) GetAddonsByProperty(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	activeOnly := ctx.DefaultQuery("include_inactive", "false") != "true"

	addonsList, err := c.service.GetAddonsByProperty(ctx.Request.Context(), propertyID, activeOnly)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get addons", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Addons retrieved successfully", addonsList, nil)
}

// GetAddon handles GET /api/v1/addons/:id
func (c *Controller) GetAddon(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid addon ID", nil, nil)
		return
	}

	addon, err := c.service.GetAddon(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAddonNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Addon not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get addon", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Addon retrieved successfully", addon, nil)
}

// UpdateAddon handles PUT /api/v1/admin/addons/:id
func (c *Controller) UpdateAddon(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid addon ID", nil, nil)
		return
	}

	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdateAddonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	addon, err := c.service.UpdateAddon(ctx.Request.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAddonNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Addon not found", nil, nil)
		case errors.Is(err, ErrRoomNotInScope):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Room does not belong to property", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update addon", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Addon updated successfully", addon, nil)
}

// DeleteAddon handles DELETE /api/v1/admin/addons/:id
func (c *Controller) DeleteAddon(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid addon ID", nil, nil)
		return
	}

	if err := c.service.DeleteAddon(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrAddonNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Addon not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete addon", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Addon deleted successfully", nil, nil)
}
