package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statsService service.StatisticsService
}

func NewStatisticsHandler(statsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/api/statistics")
	{
		stats.GET("/overview", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetOverview)
	}
}

// GetOverview returns invoice pipeline counts for the dashboard
// @Summary      Invoice overview statistics
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.OverviewResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/statistics/overview [get]
func (h *StatisticsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statsService.GetOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, overview))
}
