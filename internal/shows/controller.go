package shows

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

func (c *Controller) CreateShow(ctx *gin.Context) {
	var req CreateShowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	show, err := c.service.CreateShow(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, "Failed to create show", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Show created successfully", show)
}

func (c *Controller) GetShow(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show ID is required", nil, "missing show ID")
		return
	}

	show, err := c.service.GetShow(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, "Failed to get show", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Show retrieved successfully", show)
}

func (c *Controller) ListShows(ctx *gin.Context) {
	shows, err := c.service.ListShows(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, "Failed to list shows", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Shows retrieved successfully", shows)
}

func (c *Controller) CreateVariant(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show ID is required", nil, "missing show ID")
		return
	}

	var req CreateVariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	variant, err := c.service.CreateVariant(ctx.Request.Context(), id, req)
	if err != nil {
		response.Error(ctx, "Failed to create variant", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Variant created successfully", variant)
}
