package inventory

import (
	"github.com/gin-gonic/gin"
)

// SetupInventoryRoutes registers public availability routes.
func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller) {
	shows := rg.Group("/shows")
	{
		shows.GET("/:id/availability", controller.GetAvailability) // GET /api/v1/shows/:id/availability
		shows.GET("/:id/seats", controller.GetSeatMap)             // GET /api/v1/shows/:id/seats?date=
	}
}
