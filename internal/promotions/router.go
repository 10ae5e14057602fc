package promotions

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPromotionRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public validation endpoint
	public := router.Group("/promotions")
	{
		public.POST("/validate", controller.ValidateCode) // POST /api/v1/promotions/validate
	}

	// Host/admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireHost())
	{
		admin.POST("/properties/:id/promotions", controller.CreatePromotion)      // POST /api/v1/admin/properties/:id/promotions
		admin.GET("/properties/:id/promotions", controller.GetPromotionsByProperty) // GET /api/v1/admin/properties/:id/promotions
		admin.PUT("/promotions/:id", controller.UpdatePromotion)                  // PUT /api/v1/admin/promotions/:id
		admin.DELETE("/promotions/:id", controller.DeletePromotion)               // DELETE /api/v1/admin/promotions/:id
	}
}
