package qrcodes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetTicketQRCode returns the door-scan QR artifact for one ticket.
func (c *Controller) GetTicketQRCode(ctx *gin.Context) {
	qr, err := c.service.TicketQRCode(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, "Failed to generate QR code", err)
		return
	}

	response.Success(ctx, http.StatusOK, "QR code generated successfully", qr)
}

// GetOrderQRCodes returns proof-of-purchase QR artifacts for every
// billable line of an order.
func (c *Controller) GetOrderQRCodes(ctx *gin.Context) {
	codes, err := c.service.OrderQRCodes(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, "Failed to generate QR codes", err)
		return
	}

	response.Success(ctx, http.StatusOK, "QR codes generated successfully", codes)
}

// ValidateTicket is the public door-scan endpoint.
func (c *Controller) ValidateTicket(ctx *gin.Context) {
	result, err := c.service.ValidateTicket(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, "Failed to validate ticket", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket validated", result)
}

// ValidatePayload is the public proof-of-purchase endpoint. A
// well-formed but mismatched payload returns valid:false rather than
// an error status.
func (c *Controller) ValidatePayload(ctx *gin.Context) {
	var req ValidatePayloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Payload is required", nil, err.Error())
		return
	}

	result, err := c.service.ValidatePayload(ctx.Request.Context(), []byte(req.Payload))
	if err != nil {
		response.Error(ctx, "Failed to validate payload", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Payload validated", result)
}
