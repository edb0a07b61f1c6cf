// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stagepass/internal/carts"
	"stagepass/internal/checkout"
	"stagepass/internal/inventory"
	"stagepass/internal/notifications"
	"stagepass/internal/orders"
	"stagepass/internal/qrcodes"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/shared/middleware"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
	"stagepass/pkg/ratelimit"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
	log      *logger.Logger

	venueRepo   venues.Repository
	showRepo    shows.Repository
	ticketRepo  tickets.Repository
	orderRepo   orders.Repository
	cartRepo    carts.Repository
	cacheSvc    cache.Service
	cartService carts.Service
	ticketSvc   tickets.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	pg := db.GetPostgreSQL()
	r := &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		log:      logger.GetDefault(),

		venueRepo:  venues.NewRepository(pg),
		showRepo:   shows.NewRepository(pg),
		ticketRepo: tickets.NewRepository(pg),
		orderRepo:  orders.NewRepository(pg),
		cartRepo:   carts.NewRepository(pg),
		cacheSvc:   cache.NewService(db.GetRedisClient()),
	}
	r.cartService = carts.NewService(r.cartRepo, cfg.Fees.Percentage)
	r.ticketSvc = tickets.NewService(r.ticketRepo, r.showRepo, r.venueRepo, r.cacheSvc)
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())

	if r.config.RateLimit.Enabled {
		limiter := ratelimit.NewRateLimiter(r.db.GetRedisClient(), &ratelimit.Config{
			Enabled:          true,
			WindowDuration:   r.config.RateLimit.WindowDuration,
			DefaultRequests:  r.config.RateLimit.DefaultRequests,
			PublicRequests:   r.config.RateLimit.PublicRequests,
			InternalRequests: r.config.RateLimit.InternalRequests,
			AdminRequests:    r.config.RateLimit.AdminRequests,
			HealthRequests:   r.config.RateLimit.HealthRequests,
		})
		api.Use(ratelimit.Middleware(limiter))
	}

	r.setupPublicRoutes(api)

	// Everything past this point requires the internal bearer token.
	protected := api.Group("", middleware.InternalAuth(r.config))
	r.setupAdminRoutes(protected)
	r.setupInternalRoutes(protected)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagepass",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagepass",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupPublicRoutes configures the storefront-facing read and
// validation routes.
func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	inventoryService := inventory.NewService(r.showRepo, r.venueRepo, r.ticketRepo, r.cacheSvc, r.config.Redis.AvailabilityTTL)
	inventory.SetupInventoryRoutes(rg, inventory.NewController(inventoryService))

	qrService := qrcodes.NewService(r.ticketRepo, r.showRepo, r.venueRepo, r.orderRepo, r.config.Validation.BaseURL, r.log)
	qrcodes.SetupPublicRoutes(rg, qrcodes.NewController(qrService))
}

// setupAdminRoutes configures venue and show catalog management.
func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	venueService := venues.NewService(r.venueRepo)
	venues.SetupVenueRoutes(rg, venues.NewController(venueService))

	showService := shows.NewService(r.showRepo, r.venueRepo)
	shows.SetupShowRoutes(rg, shows.NewController(showService))
}

// setupInternalRoutes configures the routes other backend services
// call during checkout.
func (r *Router) setupInternalRoutes(rg *gin.RouterGroup) {
	tickets.SetupTicketRoutes(rg, tickets.NewController(r.ticketSvc))

	internal := rg.Group("/internal")

	carts.SetupCartRoutes(internal, carts.NewController(r.cartService))

	guard := tickets.NewGuard(r.ticketRepo, r.showRepo, r.venueRepo)
	checkoutService := checkout.NewService(
		r.cartRepo,
		r.cartService,
		r.orderRepo,
		r.showRepo,
		guard,
		r.ticketSvc,
		r.producer,
	)
	checkout.SetupCheckoutRoutes(internal, checkout.NewController(checkoutService))
}
