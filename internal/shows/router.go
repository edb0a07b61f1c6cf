package shows

import (
	"github.com/gin-gonic/gin"
)

// SetupShowRoutes registers admin show routes on the supplied group.
func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller) {
	shows := rg.Group("/admin/shows")
	{
		shows.POST("", controller.CreateShow)                 // POST /api/v1/admin/shows
		shows.GET("", controller.ListShows)                   // GET /api/v1/admin/shows
		shows.GET("/:id", controller.GetShow)                 // GET /api/v1/admin/shows/:id
		shows.POST("/:id/variants", controller.CreateVariant) // POST /api/v1/admin/shows/:id/variants
	}
}
