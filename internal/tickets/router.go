package tickets

import (
	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes registers internal ticket routes on the supplied
// group. The caller attaches the internal-auth middleware.
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	internal := rg.Group("/internal/tickets")
	{
		internal.POST("/issue", controller.IssueTickets)             // POST /api/v1/internal/tickets/issue
		internal.POST("/rollback", controller.RollbackTickets)       // POST /api/v1/internal/tickets/rollback
		internal.GET("/order/:orderRef", controller.GetOrderTickets) // GET /api/v1/internal/tickets/order/:orderRef
		internal.POST("/:id/scan", controller.MarkScanned)           // POST /api/v1/internal/tickets/:id/scan
	}
}
