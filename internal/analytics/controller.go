package analytics

import (
	"net/http"
	"strconv"

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

// GetDashboard handles GET /api/v1/admin/analytics/dashboard
func (c *Controller) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboardAnalytics(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve dashboard analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

// GetRevenue handles GET /api/v1/admin/analytics/revenue
func (c *Controller) GetRevenue(ctx *gin.Context) {
	overview, err := c.service.GetRevenueOverview(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve revenue analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Revenue analytics retrieved successfully", overview, nil)
}

// GetBookings handles GET /api/v1/admin/analytics/bookings
func (c *Controller) GetBookings(ctx *gin.Context) {
	overview, err := c.service.GetBookingOverview(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve booking analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking analytics retrieved successfully", overview, nil)
}

// GetCancellations handles GET /api/v1/admin/analytics/cancellations
func (c *Controller) GetCancellations(ctx *gin.Context) {
	overview, err := c.service.GetCancellationOverview(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve cancellation analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation analytics retrieved successfully", overview, nil)
}

// GetPromotions handles GET /api/v1/admin/analytics/promotions
func (c *Controller) GetPromotions(ctx *gin.Context) {
	overview, err := c.service.GetPromotionOverview(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve promotion analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Promotion analytics retrieved successfully", overview, nil)
}

// GetProperty handles GET /api/v1/admin/analytics/properties/:id
func (c *Controller) GetProperty(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, nil)
		return
	}

	analytics, err := c.service.GetPropertyAnalytics(ctx.Request.Context(), propertyID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve property analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Property analytics retrieved successfully", analytics, nil)
}

// GetDailyTrend handles GET /api/v1/admin/analytics/daily?days=30
func (c *Controller) GetDailyTrend(ctx *gin.Context) {
	days := 30
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "days must be between 1 and 365", nil, nil)
			return
		}
		days = parsed
	}

	stats, err := c.service.GetDailyBookingStats(ctx.Request.Context(), days)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve daily booking stats", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Daily booking stats retrieved successfully", stats, nil)
}
