package venues

import (
	"github.com/gin-gonic/gin"
)

// SetupVenueRoutes registers admin venue routes on the supplied group.
// The caller is responsible for attaching auth middleware.
func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	venues := rg.Group("/admin/venues")
	{
		venues.POST("", controller.CreateVenue)     // POST /api/v1/admin/venues
		venues.GET("", controller.ListVenues)       // GET /api/v1/admin/venues
		venues.GET("/:id", controller.GetVenue)     // GET /api/v1/admin/venues/:id
		venues.POST("/:id/rows", controller.AddRow) // POST /api/v1/admin/venues/:id/rows
	}
}
