package policies

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPolicyRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public: guests see the policy that will bind their booking
	public := router.Group("/properties")
	{
		public.GET("/:id/cancellation-policy", controller.GetActivePolicy) // GET /api/v1/properties/:id/cancellation-policy
	}

	// Host/admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireHost())
	{
		admin.POST("/payment-rules", controller.CreatePaymentRule)                          // POST /api/v1/admin/payment-rules
		admin.GET("/payment-rules/:id", controller.GetPaymentRule)                          // GET /api/v1/admin/payment-rules/:id
		admin.DELETE("/payment-rules/:id", controller.DeactivatePaymentRule)                // DELETE /api/v1/admin/payment-rules/:id
		admin.POST("/properties/:id/cancellation-policy", controller.CreateCancellationPolicy) // POST /api/v1/admin/properties/:id/cancellation-policy
		admin.DELETE("/cancellation-policies/:id", controller.DeactivateCancellationPolicy) // DELETE /api/v1/admin/cancellation-policies/:id
	}
}
