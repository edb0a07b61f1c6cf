package inventory

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

// GetAvailability returns per-date, per-category remaining counts.
func (c *Controller) GetAvailability(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show ID is required", nil, "missing show ID")
		return
	}

	availability, err := c.service.Availability(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, "Failed to get availability", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Availability retrieved successfully", availability)
}

// GetSeatMap returns the seat grid for one date.
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show ID is required", nil, "missing show ID")
		return
	}

	var query SeatMapQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Date parameter is required", nil, err.Error())
		return
	}

	seatMap, err := c.service.SeatMap(ctx.Request.Context(), id, query.Date)
	if err != nil {
		response.Error(ctx, "Failed to get seat map", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Seat map retrieved successfully", seatMap)
}
