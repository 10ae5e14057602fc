package addons

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAddonRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public routes
	publicAddons := router.Group("")
	{
		publicAddons.GET("/properties/:id/addons", controller.GetAddonsByProperty) // GET /api/v1/properties/:id/addons
		publicAddons.GET("/addons/:id", controller.GetAddon)                       // GET /api/v1/addons/:id
	}

	// Host/admin routes
	adminAddons := router.Group("/admin")
	adminAddons.Use(middleware.JWTAuth(), middleware.RequireHost())
	{
		adminAddons.POST("/properties/:id/addons", controller.CreateAddon) // POST /api/v1/admin/properties/:id/addons
		adminAddons.PUT("/addons/:id", controller.UpdateAddon)             // PUT /api/v1/admin/addons/:id
		adminAddons.DELETE("/addons/:id", controller.DeleteAddon)          // DELETE /api/v1/admin/addons/:id
	}
}
