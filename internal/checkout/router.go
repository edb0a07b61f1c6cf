package checkout

import (
	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes registers the internal order-completion route.
func SetupCheckoutRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/checkout/:cartId/complete", controller.CompleteCart) // POST /api/v1/internal/checkout/:cartId/complete
}
