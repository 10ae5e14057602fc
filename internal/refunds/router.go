package refunds

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRefundRoutes configures the refund request workflow endpoints
func SetupRefundRoutes(router *gin.RouterGroup, controller *Controller) {
	refunds := router.Group("/refunds")
	refunds.Use(middleware.JWTAuth())
	{
		refunds.POST("", controller.RequestRefund)              // POST /api/v1/refunds
		refunds.GET("/my", controller.GetMyRefunds)             // GET /api/v1/refunds/my
		refunds.GET("/:id", controller.GetRefund)               // GET /api/v1/refunds/:id
		refunds.POST("/:id/withdraw", controller.Withdraw)      // POST /api/v1/refunds/:id/withdraw
	}

	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.GET("/:id/refund-preview", controller.PreviewRefund) // GET /api/v1/bookings/:id/refund-preview
	}

	admin := router.Group("/admin/refunds")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetAllRefunds)               // GET /api/v1/admin/refunds
		admin.POST("/:id/review", controller.StartReview)     // POST /api/v1/admin/refunds/:id/review
		admin.POST("/:id/decision", controller.Decide)        // POST /api/v1/admin/refunds/:id/decision
		admin.POST("/:id/process", controller.StartProcessing) // POST /api/v1/admin/refunds/:id/process
		admin.POST("/:id/settle", controller.Settle)          // POST /api/v1/admin/refunds/:id/settle
	}
}
