package analytics

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAnalyticsRoutes configures admin analytics endpoints
func SetupAnalyticsRoutes(router *gin.RouterGroup, controller *Controller) {
	admin := router.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboard)         // GET /api/v1/admin/analytics/dashboard
		admin.GET("/revenue", controller.GetRevenue)             // GET /api/v1/admin/analytics/revenue
		admin.GET("/bookings", controller.GetBookings)           // GET /api/v1/admin/analytics/bookings
		admin.GET("/cancellations", controller.GetCancellations) // GET /api/v1/admin/analytics/cancellations
		admin.GET("/promotions", controller.GetPromotions)       // GET /api/v1/admin/analytics/promotions
		admin.GET("/properties/:id", controller.GetProperty)     // GET /api/v1/admin/analytics/properties/:id
		admin.GET("/daily", controller.GetDailyTrend)            // GET /api/v1/admin/analytics/daily
	}
}
