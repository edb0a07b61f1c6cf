package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// IssueTickets is the internal issuance endpoint, called by the
// order-completion workflow after the order is durable.
func (c *Controller) IssueTickets(ctx *gin.Context) {
	var req IssueTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	items := make([]IssueItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		variantID, err := uuid.Parse(itemReq.ShowVariantID)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show variant ID", nil, err.Error())
			return
		}

		item := IssueItem{
			LineItemID:    itemReq.LineItemID,
			ShowVariantID: variantID,
			Quantity:      itemReq.Quantity,
			GeneralAccess: itemReq.GeneralAccess,
			SeatLabel:     itemReq.SeatLabel,
			ShowDate:      itemReq.ShowDate,
		}
		if itemReq.RowID != "" {
			rowID, err := uuid.Parse(itemReq.RowID)
			if err != nil {
				response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid row ID", nil, err.Error())
				return
			}
			item.RowID = &rowID
		}
		items = append(items, item)
	}

	token, err := c.service.IssueTickets(ctx.Request.Context(), req.OrderRef, items)
	if err != nil {
		response.Error(ctx, "Failed to issue tickets", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Tickets issued successfully", token)
}

// RollbackTickets is the internal compensation endpoint.
func (c *Controller) RollbackTickets(ctx *gin.Context) {
	var req RollbackTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	token := &UndoToken{OrderRef: req.OrderRef}
	for _, raw := range req.TicketIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid ticket ID", nil, err.Error())
			return
		}
		token.TicketIDs = append(token.TicketIDs, id)
	}

	if err := c.service.DeleteTickets(ctx.Request.Context(), token); err != nil {
		response.Error(ctx, "Failed to roll back tickets", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets rolled back successfully", nil)
}

// GetOrderTickets lists the tickets issued for one order.
func (c *Controller) GetOrderTickets(ctx *gin.Context) {
	orderRef := ctx.Param("orderRef")
	if orderRef == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Order ref is required", nil, "missing order ref")
		return
	}

	list, err := c.service.GetOrderTickets(ctx.Request.Context(), orderRef)
	if err != nil {
		response.Error(ctx, "Failed to get tickets", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved successfully", list)
}

// MarkScanned transitions a ticket to scanned after a door scan.
func (c *Controller) MarkScanned(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Ticket ID is required", nil, "missing ticket ID")
		return
	}

	if err := c.service.MarkScanned(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, "Failed to mark ticket scanned", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket marked as scanned", nil)
}
