package properties

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

func (c *Controller) hostID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

// CreateProperty handles POST /api/v1/admin/properties
func (c *Controller) CreateProperty(ctx *gin.Context) {
	hostID, ok := c.hostID(ctx)
	if !ok {
		return
	}

	var req CreatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	property, err := c.service.CreateProperty(ctx.Request.Context(), hostID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create property", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Property created successfully", property, nil)
}

// GetProperty handles GET /api/v1/properties/:id
func (c *Controller) GetProperty(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	property, err := c.service.GetProperty(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Property not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get property", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Property retrieved successfully", property, nil)
}

// ListProperties handles GET /api/v1/properties
func (c *Controller) ListProperties(ctx *gin.Context) {
	var query PropertyListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListProperties(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list properties", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Properties retrieved successfully", result, nil)
}

// UpdateProperty handles PUT /api/v1/admin/properties/:id
func (c *Controller) UpdateProperty(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	userID, ok := c.hostID(ctx)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	property, err := c.service.UpdateProperty(ctx.Request.Context(), id, userID, req)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Property not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update property", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Property updated successfully", property, nil)
}

// DeleteProperty handles DELETE /api/v1/admin/properties/:id
func (c *Controller) DeleteProperty(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	if err := c.service.DeleteProperty(ctx.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrPropertyNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Property not found", nil, nil)
		case errors.Is(err, ErrNotDraft):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Only draft properties can be deleted", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete property", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Property deleted successfully", nil, nil)
}

// AddRoom handles POST /api/v1/admin/properties/:id/rooms
func (c *Controller) AddRoom(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	room, err := c.service.AddRoom(ctx.Request.Context(), propertyID, req)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Property not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create room", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Room created successfully", room, nil)
}

// GetRooms handles GET /api/v1/properties/:id/rooms
func (c *Controller) GetRooms(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	rooms, err := c.service.GetRooms(ctx.Request.Context(), propertyID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get rooms", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rooms retrieved successfully", rooms, nil)
}

// UpdateRoom handles PUT /api/v1/admin/rooms/:id
func (c *Controller) UpdateRoom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid room ID", nil, nil)
		return
	}

	var req UpdateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	room, err := c.service.UpdateRoom(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Room not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update room", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room updated successfully", room, nil)
}

// DeleteRoom handles DELETE /api/v1/admin/rooms/:id
func (c *Controller) DeleteRoom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid room ID", nil, nil)
		return
	}

	if err := c.service.DeleteRoom(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Room not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete room", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room deleted successfully", nil, nil)
}
