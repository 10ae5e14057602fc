// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"roomly/internal/addons"
	"roomly/internal/analytics"
	"roomly/internal/availability"
	"roomly/internal/bookings"
	"roomly/internal/notifications"
	"roomly/internal/policies"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/internal/refunds"
	"roomly/internal/shared/config"
	"roomly/internal/shared/database"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher *notifications.Publisher
	log       *logger.Logger

	cacheService    cache.Service
	propertyService properties.Service
	addonService    addons.Service
	promoService    promotions.Service
	policyService   policies.Service
	bookingService  bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher *notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       logger.GetDefault(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.cacheService = cache.NewService(r.db.GetRedisClient())

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupPropertyRoutes(api)
		r.setupAddonRoutes(api)
		r.setupPromotionRoutes(api)
		r.setupPolicyRoutes(api)
		availabilityService := r.setupAvailabilityRoutes(api)
		r.setupBookingRoutes(api, availabilityService)
		r.setupRefundRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "roomly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "roomly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupPropertyRoutes(rg *gin.RouterGroup) {
	repo := properties.NewRepository(r.db.GetPostgreSQL())
	r.propertyService = properties.NewService(repo, r.cacheService, r.log)
	controller := properties.NewController(r.propertyService)
	properties.SetupPropertyRoutes(rg, controller)
}

func (r *Router) setupAddonRoutes(rg *gin.RouterGroup) {
	repo := addons.NewRepository(r.db.GetPostgreSQL())
	r.addonService = addons.NewService(repo, r.propertyService, r.cacheService, r.log)
	controller := addons.NewController(r.addonService)
	addons.SetupAddonRoutes(rg, controller)
}

func (r *Router) setupPromotionRoutes(rg *gin.RouterGroup) {
	repo := promotions.NewRepository(r.db.GetPostgreSQL())
	r.promoService = promotions.NewService(repo, r.cacheService, r.log)
	controller := promotions.NewController(r.promoService)
	promotions.SetupPromotionRoutes(rg, controller)
}

func (r *Router) setupPolicyRoutes(rg *gin.RouterGroup) {
	repo := policies.NewRepository(r.db.GetPostgreSQL())
	r.policyService = policies.NewService(repo, r.cacheService, r.log)
	controller := policies.NewController(r.policyService)
	policies.SetupPolicyRoutes(rg, controller)
}

func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup) availability.Service {
	atomic := availability.NewAtomicRedisOperations(r.db.GetRedisClient())
	service := availability.NewService(r.db.GetPostgreSQL(), atomic, r.propertyService, r.log)
	controller := availability.NewController(service)
	availability.SetupAvailabilityRoutes(rg, controller)
	return service
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, availabilityService availability.Service) {
	repo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(
		repo,
		r.propertyService,
		r.addonService,
		r.promoService,
		r.policyService,
		availabilityService,
		r.publisher,
		r.log,
		r.config.Redis.RoomHoldTTL,
	)

	// The publisher resolves refund recipients through bookings
	if r.publisher != nil {
		r.publisher.SetBookingService(r.bookingService)
	}

	controller := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, controller)
}

func (r *Router) setupRefundRoutes(rg *gin.RouterGroup) {
	repo := refunds.NewRepository(r.db.GetPostgreSQL())
	var notifier refunds.Notifier
	if r.publisher != nil {
		notifier = r.publisher
	}
	service := refunds.NewService(repo, r.bookingService, notifier, r.log)
	controller := refunds.NewController(service)
	refunds.SetupRefundRoutes(rg, controller)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	repo := analytics.NewRepository(r.db.GetPostgreSQL())
	service := analytics.NewService(repo, r.cacheService)
	controller := analytics.NewController(service)
	analytics.SetupAnalyticsRoutes(rg, controller)
}
