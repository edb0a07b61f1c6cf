package carts

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

func (c *Controller) CreateCart(ctx *gin.Context) {
	var req CreateCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cart, err := c.service.CreateCart(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, "Failed to create cart", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Cart created successfully", cart.ToResponse())
}

func (c *Controller) GetCart(ctx *gin.Context) {
	cart, err := c.service.GetCart(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, "Failed to get cart", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Cart retrieved successfully", cart.ToResponse())
}

func (c *Controller) AddLineItem(ctx *gin.Context) {
	var req AddLineItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cart, err := c.service.AddLineItem(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.Error(ctx, "Failed to add line item", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Line item added successfully", cart.ToResponse())
}

func (c *Controller) UpdateLineItem(ctx *gin.Context) {
	var req UpdateLineItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cart, err := c.service.UpdateLineItem(ctx.Request.Context(), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.Error(ctx, "Failed to update line item", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Line item updated successfully", cart.ToResponse())
}

func (c *Controller) RemoveLineItem(ctx *gin.Context) {
	cart, err := c.service.RemoveLineItem(ctx.Request.Context(), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.Error(ctx, "Failed to remove line item", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Line item removed successfully", cart.ToResponse())
}
