package bookings

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking and payment endpoints
func SetupBookingRoutes(router *gin.RouterGroup, controller *Controller) {
	bookings := router.Group("/bookings")
	{
		// Quotes are public so guests can price a stay before signing up
		bookings.POST("/quote", controller.Quote) // POST /api/v1/bookings/quote

		authenticated := bookings.Group("")
		authenticated.Use(middleware.JWTAuth())
		{
			authenticated.POST("", controller.CreateBooking)              // POST /api/v1/bookings
			authenticated.GET("/my", controller.GetMyBookings)            // GET /api/v1/bookings/my
			authenticated.GET("/:id", controller.GetBooking)              // GET /api/v1/bookings/:id
			authenticated.POST("/:id/payments", controller.RecordPayment) // POST /api/v1/bookings/:id/payments
			authenticated.POST("/:id/cancel", controller.CancelBooking)   // POST /api/v1/bookings/:id/cancel
		}
	}

	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("/bookings", controller.GetAllBookings) // GET /api/v1/admin/bookings
	}
}
