package properties

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPropertyRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public routes
	publicProperties := router.Group("/properties")
	{
		publicProperties.GET("", controller.ListProperties)        // GET /api/v1/properties - Browse properties
		publicProperties.GET("/:id", controller.GetProperty)       // GET /api/v1/properties/:id - Property detail
		publicProperties.GET("/:id/rooms", controller.GetRooms)    // GET /api/v1/properties/:id/rooms - Room inventory
	}

	// Host/admin routes
	adminProperties := router.Group("/admin/properties")
	adminProperties.Use(middleware.JWTAuth(), middleware.RequireHost())
	{
		adminProperties.POST("", controller.CreateProperty)         // POST /api/v1/admin/properties - Create property
		adminProperties.PUT("/:id", controller.UpdateProperty)      // PUT /api/v1/admin/properties/:id - Update property
		adminProperties.DELETE("/:id", controller.DeleteProperty)   // DELETE /api/v1/admin/properties/:id - Delete draft property
		adminProperties.POST("/:id/rooms", controller.AddRoom)      // POST /api/v1/admin/properties/:id/rooms - Add room
	}

	adminRooms := router.Group("/admin/rooms")
	adminRooms.Use(middleware.JWTAuth(), middleware.RequireHost())
	{
		adminRooms.PUT("/:id", controller.UpdateRoom)    // PUT /api/v1/admin/rooms/:id - Update room
		adminRooms.DELETE("/:id", controller.DeleteRoom) // DELETE /api/v1/admin/rooms/:id - Delete room
	}
}
