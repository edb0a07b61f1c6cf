package venues

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

func (c *Controller) CreateVenue(ctx *gin.Context) {
	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, "Failed to create venue", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Venue created successfully", venue)
}

func (c *Controller) GetVenue(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Venue ID is required", nil, "missing venue ID")
		return
	}

	venue, err := c.service.GetVenue(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, "Failed to get venue", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Venue retrieved successfully", venue)
}

func (c *Controller) ListVenues(ctx *gin.Context) {
	venues, err := c.service.ListVenues(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, "Failed to list venues", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Venues retrieved successfully", venues)
}

func (c *Controller) AddRow(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Venue ID is required", nil, "missing venue ID")
		return
	}

	var req CreateRowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	row, err := c.service.AddRow(ctx.Request.Context(), id, req)
	if err != nil {
		response.Error(ctx, "Failed to add row", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Row added successfully", row)
}
