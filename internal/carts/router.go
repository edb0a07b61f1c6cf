package carts

import (
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers the internal cart mutation routes. Every
// mutation re-runs the service-fee hook.
func SetupCartRoutes(rg *gin.RouterGroup, controller *Controller) {
	carts := rg.Group("/carts")
	{
		carts.POST("", controller.CreateCart)                         // POST /api/v1/internal/carts
		carts.GET("/:id", controller.GetCart)                         // GET /api/v1/internal/carts/:id
		carts.POST("/:id/items", controller.AddLineItem)              // POST /api/v1/internal/carts/:id/items
		carts.PATCH("/:id/items/:itemId", controller.UpdateLineItem)  // PATCH /api/v1/internal/carts/:id/items/:itemId
		carts.DELETE("/:id/items/:itemId", controller.RemoveLineItem) // DELETE /api/v1/internal/carts/:id/items/:itemId
	}
}
