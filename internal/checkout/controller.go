package checkout

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

// CompleteCart runs the order-completion workflow for one cart.
func (c *Controller) CompleteCart(ctx *gin.Context) {
	var req CompleteCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CompleteCart(ctx.Request.Context(), ctx.Param("cartId"), req)
	if err != nil {
		response.Error(ctx, "Failed to complete checkout", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Checkout completed successfully", result)
}
