package qrcodes

import (
	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes registers the scan-facing validation routes and the
// proof-of-purchase artifact routes.
func SetupPublicRoutes(rg *gin.RouterGroup, controller *Controller) {
	tickets := rg.Group("/tickets")
	{
		tickets.GET("/validate/:id", controller.ValidateTicket) // GET /api/v1/tickets/validate/:id
		tickets.GET("/:id/qr-code", controller.GetTicketQRCode) // GET /api/v1/tickets/:id/qr-code
	}

	qr := rg.Group("/qr-codes")
	{
		qr.POST("/validate", controller.ValidatePayload) // POST /api/v1/qr-codes/validate
	}

	orders := rg.Group("/orders")
	{
		orders.GET("/:id/qr-codes", controller.GetOrderQRCodes) // GET /api/v1/orders/:id/qr-codes
	}
}
